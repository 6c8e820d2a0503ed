package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/margindesk/margindesk-backend/pkg/enums"
)

// FeeDefinition is a marketplace fee rule: how it is calculated and which
// base it applies to. The value itself lives on StoreFee/ListingFee rows.
type FeeDefinition struct {
	ID         uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Name       string              `gorm:"column:name;not null"`
	CalcKind   enums.FeeCalcKind   `gorm:"column:calc_kind;type:fee_calc_kind;not null"`
	ApplyPoint enums.FeeApplyPoint `gorm:"column:apply_point;type:fee_apply_point;not null"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
