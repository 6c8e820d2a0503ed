package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdRecord is one advertising campaign/period entry for a store+product pair.
// Records are append-only facts; the engine only reads aggregates over them.
type AdRecord struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID    uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index:idx_ads_store_product"`
	ProductID  uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index:idx_ads_store_product"`
	Campaign   *string          `gorm:"column:campaign"`
	Spend      decimal.Decimal  `gorm:"column:spend;type:numeric(14,2);not null"`
	GMV        decimal.Decimal  `gorm:"column:gmv;type:numeric(14,2);not null"`
	Orders     int64            `gorm:"column:orders;not null"`
	TotalSales *decimal.Decimal `gorm:"column:total_sales;type:numeric(14,2)"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
