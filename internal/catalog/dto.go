package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
)

// MaterialDTO is the material payload returned to clients.
type MaterialDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	UnitQuantity decimal.Decimal `json:"unit_quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitLabel    string          `json:"unit_label"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewMaterialDTO maps the persisted model to its API shape.
func NewMaterialDTO(material *models.Material) *MaterialDTO {
	if material == nil {
		return nil
	}
	return &MaterialDTO{
		ID:           material.ID,
		Name:         material.Name,
		TotalPrice:   material.TotalPrice,
		UnitQuantity: material.UnitQuantity,
		UnitPrice:    material.UnitPrice,
		UnitLabel:    material.UnitLabel,
		CreatedAt:    material.CreatedAt,
		UpdatedAt:    material.UpdatedAt,
	}
}

// MaterialListResult is a cursor page of materials.
type MaterialListResult struct {
	Materials  []MaterialDTO `json:"materials"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// BOMLineDTO is one material consumption row on a product, enriched with
// the material's display fields.
type BOMLineDTO struct {
	ID           uuid.UUID       `json:"id"`
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name,omitempty"`
	UnitLabel    string          `json:"unit_label,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineCost     decimal.Decimal `json:"line_cost"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ExtraCostDTO is one ad-hoc per-unit cost on a product.
type ExtraCostDTO struct {
	ID        uuid.UUID       `json:"id"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductDTO is the product payload with its composition rows.
type ProductDTO struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	SKU        *string        `json:"sku,omitempty"`
	BOMLines   []BOMLineDTO   `json:"bom_lines"`
	ExtraCosts []ExtraCostDTO `json:"extra_costs"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ProductSummaryDTO is the product list row without composition.
type ProductSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SKU       *string   `json:"sku,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListResult is a cursor page of product summaries.
type ProductListResult struct {
	Products   []ProductSummaryDTO `json:"products"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// NewProductDTO maps the product and its composition, resolving material
// display fields from the provided map.
func NewProductDTO(product *models.Product, materials map[uuid.UUID]models.Material) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:         product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		BOMLines:   make([]BOMLineDTO, 0, len(product.BOMLines)),
		ExtraCosts: make([]ExtraCostDTO, 0, len(product.ExtraCosts)),
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
	for _, line := range product.BOMLines {
		entry := BOMLineDTO{
			ID:         line.ID,
			MaterialID: line.MaterialID,
			Quantity:   line.Quantity,
			CreatedAt:  line.CreatedAt,
		}
		if material, ok := materials[line.MaterialID]; ok {
			entry.MaterialName = material.Name
			entry.UnitLabel = material.UnitLabel
			entry.UnitPrice = material.UnitPrice
			entry.LineCost = line.Quantity.Mul(material.UnitPrice)
		}
		dto.BOMLines = append(dto.BOMLines, entry)
	}
	for _, extra := range product.ExtraCosts {
		dto.ExtraCosts = append(dto.ExtraCosts, ExtraCostDTO{
			ID:        extra.ID,
			Label:     extra.Label,
			Amount:    extra.Amount,
			CreatedAt: extra.CreatedAt,
		})
	}
	return dto
}
