package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/enums"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

// FeeLine is one resolved fee applied to a listing: the definition's rule
// plus the concrete value bound at store or listing level.
type FeeLine struct {
	FeeDefinitionID uuid.UUID           `json:"fee_definition_id"`
	Name            string              `json:"name"`
	CalcKind        enums.FeeCalcKind   `json:"calc_kind"`
	ApplyPoint      enums.FeeApplyPoint `json:"apply_point"`
	Value           decimal.Decimal     `json:"value"`
}

// FeeBreakdownEntry is one computed fee amount. Entries preserve input order.
type FeeBreakdownEntry struct {
	FeeDefinitionID uuid.UUID           `json:"fee_definition_id"`
	Name            string              `json:"name"`
	CalcKind        enums.FeeCalcKind   `json:"calc_kind"`
	ApplyPoint      enums.FeeApplyPoint `json:"apply_point"`
	Value           decimal.Decimal     `json:"value"`
	Amount          decimal.Decimal     `json:"amount"`
}

// ApplyFees computes each fee against its base and returns the additive total
// with an itemized breakdown. Fees are independent: no fee's amount feeds
// another fee's base. Percent fees choose their base by apply point; fixed
// fees are the raw value, apply point recorded for display only.
func ApplyFees(priceBase, discountedBase decimal.Decimal, fees []FeeLine) (decimal.Decimal, []FeeBreakdownEntry, error) {
	total := decimal.Zero
	breakdown := make([]FeeBreakdownEntry, 0, len(fees))

	for _, fee := range fees {
		if fee.Value.IsNegative() {
			return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "fee value cannot be negative").
				WithDetails(map[string]any{"fee": fee.Name, "value": fee.Value.String()})
		}
		if !fee.CalcKind.IsValid() {
			return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown fee calc kind").
				WithDetails(map[string]any{"fee": fee.Name, "calc_kind": string(fee.CalcKind)})
		}
		if !fee.ApplyPoint.IsValid() {
			return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown fee apply point").
				WithDetails(map[string]any{"fee": fee.Name, "apply_point": string(fee.ApplyPoint)})
		}

		var amount decimal.Decimal
		switch fee.CalcKind {
		case enums.FeeCalcPercent:
			base := priceBase
			if fee.ApplyPoint == enums.FeeApplyOnDiscountedPrice {
				base = discountedBase
			}
			amount = fee.Value.Mul(base)
		case enums.FeeCalcFixed:
			amount = fee.Value
		}

		total = total.Add(amount)
		breakdown = append(breakdown, FeeBreakdownEntry{
			FeeDefinitionID: fee.FeeDefinitionID,
			Name:            fee.Name,
			CalcKind:        fee.CalcKind,
			ApplyPoint:      fee.ApplyPoint,
			Value:           fee.Value,
			Amount:          amount,
		})
	}

	return total, breakdown, nil
}
