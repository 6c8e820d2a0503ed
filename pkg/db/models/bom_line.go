package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMLine records how much of one material a single unit of a product consumes.
type BOMLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_bom_product_material"`
	MaterialID uuid.UUID       `gorm:"column:material_id;type:uuid;not null;uniqueIndex:idx_bom_product_material"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(12,4);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
