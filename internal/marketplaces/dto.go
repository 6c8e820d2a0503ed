package marketplaces

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	"github.com/margindesk/margindesk-backend/pkg/enums"
)

// MarketplaceDTO is the marketplace payload returned to clients.
type MarketplaceDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMarketplaceDTO maps the persisted model to its API shape.
func NewMarketplaceDTO(marketplace *models.Marketplace) *MarketplaceDTO {
	if marketplace == nil {
		return nil
	}
	return &MarketplaceDTO{
		ID:        marketplace.ID,
		Name:      marketplace.Name,
		CreatedAt: marketplace.CreatedAt,
		UpdatedAt: marketplace.UpdatedAt,
	}
}

// FeeDefinitionDTO is the fee rule payload.
type FeeDefinitionDTO struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	CalcKind   enums.FeeCalcKind   `json:"calc_kind"`
	ApplyPoint enums.FeeApplyPoint `json:"apply_point"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// NewFeeDefinitionDTO maps the persisted model to its API shape.
func NewFeeDefinitionDTO(definition *models.FeeDefinition) *FeeDefinitionDTO {
	if definition == nil {
		return nil
	}
	return &FeeDefinitionDTO{
		ID:         definition.ID,
		Name:       definition.Name,
		CalcKind:   definition.CalcKind,
		ApplyPoint: definition.ApplyPoint,
		CreatedAt:  definition.CreatedAt,
		UpdatedAt:  definition.UpdatedAt,
	}
}

// StoreFeeDTO is a fee definition bound to a store with its concrete value.
type StoreFeeDTO struct {
	ID              uuid.UUID           `json:"id"`
	FeeDefinitionID uuid.UUID           `json:"fee_definition_id"`
	Name            string              `json:"name,omitempty"`
	CalcKind        enums.FeeCalcKind   `json:"calc_kind,omitempty"`
	ApplyPoint      enums.FeeApplyPoint `json:"apply_point,omitempty"`
	Value           decimal.Decimal     `json:"value"`
	CreatedAt       time.Time           `json:"created_at"`
}

// StoreDTO is the storefront payload with its fee rows.
type StoreDTO struct {
	ID            uuid.UUID     `json:"id"`
	MarketplaceID uuid.UUID     `json:"marketplace_id"`
	Name          string        `json:"name"`
	Fees          []StoreFeeDTO `json:"fees"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewStoreDTO maps the store and its preloaded fee rows.
func NewStoreDTO(store *models.Store) *StoreDTO {
	if store == nil {
		return nil
	}
	dto := &StoreDTO{
		ID:            store.ID,
		MarketplaceID: store.MarketplaceID,
		Name:          store.Name,
		Fees:          make([]StoreFeeDTO, 0, len(store.Fees)),
		CreatedAt:     store.CreatedAt,
		UpdatedAt:     store.UpdatedAt,
	}
	for _, fee := range store.Fees {
		entry := StoreFeeDTO{
			ID:              fee.ID,
			FeeDefinitionID: fee.FeeDefinitionID,
			Value:           fee.Value,
			CreatedAt:       fee.CreatedAt,
		}
		if fee.Definition != nil {
			entry.Name = fee.Definition.Name
			entry.CalcKind = fee.Definition.CalcKind
			entry.ApplyPoint = fee.Definition.ApplyPoint
		}
		dto.Fees = append(dto.Fees, entry)
	}
	return dto
}
