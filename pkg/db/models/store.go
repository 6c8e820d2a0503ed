package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a seller's storefront on one marketplace.
type Store struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	MarketplaceID uuid.UUID  `gorm:"column:marketplace_id;type:uuid;not null;index"`
	Name          string     `gorm:"column:name;not null"`
	Fees          []StoreFee `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
