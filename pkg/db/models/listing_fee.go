package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingFee overrides a store-level fee value for one listing. When a
// listing carries a row for a fee definition, that value replaces the store's.
type ListingFee struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ListingID       uuid.UUID       `gorm:"column:listing_id;type:uuid;not null;uniqueIndex:idx_listing_fee_definition"`
	FeeDefinitionID uuid.UUID       `gorm:"column:fee_definition_id;type:uuid;not null;uniqueIndex:idx_listing_fee_definition"`
	Value           decimal.Decimal `gorm:"column:value;type:numeric(14,4);not null"`
	Definition      *FeeDefinition  `gorm:"foreignKey:FeeDefinitionID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
