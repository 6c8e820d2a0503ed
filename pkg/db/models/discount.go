package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/enums"
)

// Discount reduces a listing's price: a rate in [0,1] for percent discounts,
// a currency amount for fixed ones.
type Discount struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	ListingID uuid.UUID          `gorm:"column:listing_id;type:uuid;not null;index"`
	Kind      enums.DiscountKind `gorm:"column:kind;type:discount_kind;not null"`
	Value     decimal.Decimal    `gorm:"column:value;type:numeric(14,4);not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
