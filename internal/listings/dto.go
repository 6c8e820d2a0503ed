package listings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	"github.com/margindesk/margindesk-backend/pkg/enums"
)

// DiscountDTO is one discount row on a listing.
type DiscountDTO struct {
	ID        uuid.UUID          `json:"id"`
	Kind      enums.DiscountKind `json:"kind"`
	Value     decimal.Decimal    `json:"value"`
	CreatedAt time.Time          `json:"created_at"`
}

// ListingFeeDTO is a listing-level fee override with its definition fields.
type ListingFeeDTO struct {
	ID              uuid.UUID           `json:"id"`
	FeeDefinitionID uuid.UUID           `json:"fee_definition_id"`
	Name            string              `json:"name,omitempty"`
	CalcKind        enums.FeeCalcKind   `json:"calc_kind,omitempty"`
	ApplyPoint      enums.FeeApplyPoint `json:"apply_point,omitempty"`
	Value           decimal.Decimal     `json:"value"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ListingDTO is the listing payload with discounts and fee overrides.
type ListingDTO struct {
	ID        uuid.UUID       `json:"id"`
	StoreID   uuid.UUID       `json:"store_id"`
	ProductID uuid.UUID       `json:"product_id"`
	ListPrice decimal.Decimal `json:"list_price"`
	Discounts []DiscountDTO   `json:"discounts"`
	Fees      []ListingFeeDTO `json:"fees"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewListingDTO maps the listing and its preloaded composition rows.
func NewListingDTO(listing *models.StoreListing) *ListingDTO {
	if listing == nil {
		return nil
	}
	dto := &ListingDTO{
		ID:        listing.ID,
		StoreID:   listing.StoreID,
		ProductID: listing.ProductID,
		ListPrice: listing.ListPrice,
		Discounts: make([]DiscountDTO, 0, len(listing.Discounts)),
		Fees:      make([]ListingFeeDTO, 0, len(listing.Fees)),
		CreatedAt: listing.CreatedAt,
		UpdatedAt: listing.UpdatedAt,
	}
	for _, discount := range listing.Discounts {
		dto.Discounts = append(dto.Discounts, DiscountDTO{
			ID:        discount.ID,
			Kind:      discount.Kind,
			Value:     discount.Value,
			CreatedAt: discount.CreatedAt,
		})
	}
	for _, fee := range listing.Fees {
		entry := ListingFeeDTO{
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
