package costing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

// MissingMaterialPolicy decides what happens when a BOM line references a
// material absent from the supplied map. Strict fails the rollup; skip keeps
// the line at zero cost and flags it in the breakdown.
type MissingMaterialPolicy string

const (
	PolicyStrict MissingMaterialPolicy = "strict"
	PolicySkip   MissingMaterialPolicy = "skip"
)

// IsValid reports whether the policy is a known value.
func (p MissingMaterialPolicy) IsValid() bool {
	switch p {
	case PolicyStrict, PolicySkip:
		return true
	}
	return false
}

// ParsePolicy normalizes a configured policy string, defaulting to strict.
func ParsePolicy(value string) (MissingMaterialPolicy, error) {
	normalized := MissingMaterialPolicy(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return PolicyStrict, nil
	}
	if !normalized.IsValid() {
		return "", fmt.Errorf("unknown missing-material policy %q", value)
	}
	return normalized, nil
}

// MaterialLine is one resolved BOM line in the cost breakdown.
type MaterialLine struct {
	MaterialID uuid.UUID       `json:"material_id"`
	Name       string          `json:"name"`
	UnitLabel  string          `json:"unit_label"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineCost   decimal.Decimal `json:"line_cost"`
	Missing    bool            `json:"missing,omitempty"`
}

// ExtraItem is one ad-hoc cost in the breakdown.
type ExtraItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Result is the itemized cost-of-goods rollup for one product.
type Result struct {
	MaterialLines    []MaterialLine  `json:"material_lines"`
	ExtraItems       []ExtraItem     `json:"extra_items"`
	MaterialSubtotal decimal.Decimal `json:"material_subtotal"`
	ExtraSubtotal    decimal.Decimal `json:"extra_subtotal"`
	CostOfGoods      decimal.Decimal `json:"cost_of_goods"`
}

// ComputeCost rolls the BOM lines and extra costs of a product up into a
// cost-of-goods figure. It is a pure function of its inputs.
func ComputeCost(bomLines []models.BOMLine, materialsByID map[uuid.UUID]models.Material, extraCosts []models.ExtraCost, policy MissingMaterialPolicy) (*Result, error) {
	if !policy.IsValid() {
		policy = PolicyStrict
	}

	result := &Result{
		MaterialLines:    make([]MaterialLine, 0, len(bomLines)),
		ExtraItems:       make([]ExtraItem, 0, len(extraCosts)),
		MaterialSubtotal: decimal.Zero,
		ExtraSubtotal:    decimal.Zero,
	}

	for _, line := range bomLines {
		if line.Quantity.IsNegative() || line.Quantity.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "bom line quantity must be positive").
				WithDetails(map[string]any{"material_id": line.MaterialID, "quantity": line.Quantity.String()})
		}

		material, ok := materialsByID[line.MaterialID]
		if !ok {
			if policy == PolicyStrict {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bom line references unknown material").
					WithDetails(map[string]any{"material_id": line.MaterialID})
			}
			result.MaterialLines = append(result.MaterialLines, MaterialLine{
				MaterialID: line.MaterialID,
				Quantity:   line.Quantity,
				UnitPrice:  decimal.Zero,
				LineCost:   decimal.Zero,
				Missing:    true,
			})
			continue
		}

		lineCost := line.Quantity.Mul(material.UnitPrice)
		result.MaterialLines = append(result.MaterialLines, MaterialLine{
			MaterialID: material.ID,
			Name:       material.Name,
			UnitLabel:  material.UnitLabel,
			Quantity:   line.Quantity,
			UnitPrice:  material.UnitPrice,
			LineCost:   lineCost,
		})
		result.MaterialSubtotal = result.MaterialSubtotal.Add(lineCost)
	}

	for _, extra := range extraCosts {
		if extra.Amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra cost amount cannot be negative").
				WithDetails(map[string]any{"label": extra.Label, "amount": extra.Amount.String()})
		}
		result.ExtraItems = append(result.ExtraItems, ExtraItem{Label: extra.Label, Amount: extra.Amount})
		result.ExtraSubtotal = result.ExtraSubtotal.Add(extra.Amount)
	}

	result.CostOfGoods = result.MaterialSubtotal.Add(result.ExtraSubtotal)
	return result, nil
}
