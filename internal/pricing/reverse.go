package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/enums"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

// BreakEvenROASSentinel stands in for an unbounded break-even ROAS when the
// expected profit at the recommended price is not positive.
var BreakEvenROASSentinel = decimal.RequireFromString("999.99")

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Target is the profit goal a reverse pricing run must reach: an absolute
// profit per order, or a margin as a rate in (0,1).
type Target struct {
	Kind  enums.TargetKind `json:"kind"`
	Value decimal.Decimal  `json:"value"`
}

// ReverseResult is the price recommendation and its break-even ad metrics.
type ReverseResult struct {
	Target                Target          `json:"target"`
	CostOfGoods           decimal.Decimal `json:"cost_of_goods"`
	PercentFeeRate        decimal.Decimal `json:"percent_fee_rate"`
	FixedFeeTotal         decimal.Decimal `json:"fixed_fee_total"`
	RawPrice              decimal.Decimal `json:"raw_price"`
	RecommendedPrice      decimal.Decimal `json:"recommended_price"`
	ExpectedProfit        decimal.Decimal `json:"expected_profit"`
	ExpectedMarginPercent decimal.Decimal `json:"expected_margin_percent"`
	BreakEvenROAS         decimal.Decimal `json:"break_even_roas"`
	MaxCPA                decimal.Decimal `json:"max_cpa"`
}

// PriceReverse inverts the linear pricing model in closed form. Discounts are
// excluded: the undiscounted price is taken as the transaction price, so
// profit(X) = X*(1 - C_p) - C_f - costOfGoods with C_p the summed percent fee
// rates and C_f the summed fixed fees. The recommended price is the exact
// solution ceiled to the next whole currency unit, and the reported profit and
// margin are recomputed at that rounded price.
func PriceReverse(costOfGoods decimal.Decimal, fees []FeeLine, target Target) (*ReverseResult, error) {
	if costOfGoods.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost of goods cannot be negative")
	}
	if !target.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown target kind").
			WithDetails(map[string]any{"kind": string(target.Kind)})
	}

	percentRate := decimal.Zero
	fixedTotal := decimal.Zero
	for _, fee := range fees {
		if fee.Value.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fee value cannot be negative").
				WithDetails(map[string]any{"fee": fee.Name, "value": fee.Value.String()})
		}
		if !fee.CalcKind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown fee calc kind").
				WithDetails(map[string]any{"fee": fee.Name, "calc_kind": string(fee.CalcKind)})
		}
		switch fee.CalcKind {
		case enums.FeeCalcPercent:
			percentRate = percentRate.Add(fee.Value)
		case enums.FeeCalcFixed:
			fixedTotal = fixedTotal.Add(fee.Value)
		}
	}

	var numerator, denominator decimal.Decimal
	switch target.Kind {
	case enums.TargetFixed:
		if target.Value.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "target profit cannot be negative")
		}
		numerator = target.Value.Add(fixedTotal).Add(costOfGoods)
		denominator = one.Sub(percentRate)
	case enums.TargetPercent:
		if !target.Value.IsPositive() || target.Value.GreaterThanOrEqual(one) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "target margin must be a rate in (0,1)")
		}
		numerator = fixedTotal.Add(costOfGoods)
		denominator = one.Sub(percentRate).Sub(target.Value)
	}

	if !denominator.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeInfeasibleTarget, "fees and target consume the entire price").
			WithDetails(map[string]any{
				"percent_fee_rate": percentRate.String(),
				"target_kind":      string(target.Kind),
				"target_value":     target.Value.String(),
			})
	}

	rawPrice := numerator.Div(denominator)
	recommended := rawPrice.Ceil()

	expectedProfit := recommended.Mul(one.Sub(percentRate)).Sub(fixedTotal).Sub(costOfGoods)

	expectedMargin := decimal.Zero
	if recommended.IsPositive() {
		expectedMargin = expectedProfit.Div(recommended).Mul(hundred)
	}

	breakEven := BreakEvenROASSentinel
	if expectedProfit.IsPositive() {
		breakEven = recommended.Div(expectedProfit)
	}

	maxCPA := expectedProfit
	if maxCPA.IsNegative() {
		maxCPA = decimal.Zero
	}

	return &ReverseResult{
		Target:                target,
		CostOfGoods:           costOfGoods,
		PercentFeeRate:        percentRate,
		FixedFeeTotal:         fixedTotal,
		RawPrice:              rawPrice,
		RecommendedPrice:      recommended,
		ExpectedProfit:        expectedProfit,
		ExpectedMarginPercent: expectedMargin,
		BreakEvenROAS:         breakEven,
		MaxCPA:                maxCPA,
	}, nil
}
