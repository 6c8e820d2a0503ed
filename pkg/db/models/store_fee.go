package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreFee binds a FeeDefinition to a store with a concrete value: a rate in
// [0,1] for percent fees, a currency amount for fixed fees.
type StoreFee struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID         uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_store_fee_definition"`
	FeeDefinitionID uuid.UUID       `gorm:"column:fee_definition_id;type:uuid;not null;uniqueIndex:idx_store_fee_definition"`
	Value           decimal.Decimal `gorm:"column:value;type:numeric(14,4);not null"`
	Definition      *FeeDefinition  `gorm:"foreignKey:FeeDefinitionID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
