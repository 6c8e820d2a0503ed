package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item. BOM lines and extra costs are compositions:
// deleting the product cascades to both.
type Product struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID   `gorm:"column:user_id;type:uuid;not null;index"`
	Name       string      `gorm:"column:name;not null"`
	SKU        *string     `gorm:"column:sku"`
	BOMLines   []BOMLine   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	ExtraCosts []ExtraCost `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
