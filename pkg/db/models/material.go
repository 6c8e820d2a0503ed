package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material is a purchasable raw input priced by the unit it is consumed in.
// UnitPrice is derived as TotalPrice / UnitQuantity and persisted so cost
// rollups never re-divide.
type Material struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Name         string          `gorm:"column:name;not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null"`
	UnitQuantity decimal.Decimal `gorm:"column:unit_quantity;type:numeric(12,4);not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(14,4);not null"`
	UnitLabel    string          `gorm:"column:unit_label;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
