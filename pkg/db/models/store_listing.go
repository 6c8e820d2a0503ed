package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreListing is a product offered in a store at a price. Discounts and
// listing-level fee overrides are compositions and cascade on delete.
type StoreListing struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID   uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_listing_store_product"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_listing_store_product"`
	ListPrice decimal.Decimal `gorm:"column:list_price;type:numeric(14,2);not null"`
	Discounts []Discount      `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Fees      []ListingFee    `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
