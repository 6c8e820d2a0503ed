package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	"github.com/margindesk/margindesk-backend/pkg/enums"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

const (
	// WarnNegativeDiscountedPrice flags discounts exceeding the list price.
	WarnNegativeDiscountedPrice = "discounted price is negative"
	// WarnNegativeProfit flags a configuration selling below cost.
	WarnNegativeProfit = "profit per order is negative"
)

// ForwardResult is the full breakdown of one forward pricing run.
type ForwardResult struct {
	ListPrice       decimal.Decimal     `json:"list_price"`
	TotalDiscount   decimal.Decimal     `json:"total_discount"`
	DiscountedPrice decimal.Decimal     `json:"discounted_price"`
	CostOfGoods     decimal.Decimal     `json:"cost_of_goods"`
	FeeBreakdown    []FeeBreakdownEntry `json:"fee_breakdown"`
	FeeTotal        decimal.Decimal     `json:"fee_total"`
	ProfitPerOrder  decimal.Decimal     `json:"profit_per_order"`
	MarginPercent   decimal.Decimal     `json:"margin_percent"`
	Warnings        []string            `json:"warnings,omitempty"`
}

// PriceForward computes profit and margin for a listing at its current price.
// Negative discounted prices and negative profit are valid what-if states and
// come back as warnings, never as errors.
func PriceForward(listPrice decimal.Decimal, discounts []models.Discount, fees []FeeLine, costOfGoods decimal.Decimal) (*ForwardResult, error) {
	if listPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list price cannot be negative")
	}

	totalDiscount := decimal.Zero
	for _, discount := range discounts {
		if discount.Value.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value cannot be negative").
				WithDetails(map[string]any{"discount_id": discount.ID})
		}
		switch discount.Kind {
		case enums.DiscountPercent:
			totalDiscount = totalDiscount.Add(discount.Value.Mul(listPrice))
		case enums.DiscountFixed:
			totalDiscount = totalDiscount.Add(discount.Value)
		default:
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount kind").
				WithDetails(map[string]any{"kind": string(discount.Kind)})
		}
	}

	discountedPrice := listPrice.Sub(totalDiscount)

	feeTotal, feeBreakdown, err := ApplyFees(listPrice, discountedPrice, fees)
	if err != nil {
		return nil, err
	}

	profit := discountedPrice.Sub(feeTotal).Sub(costOfGoods)

	margin := decimal.Zero
	if listPrice.IsPositive() {
		margin = profit.Div(listPrice).Mul(decimal.NewFromInt(100))
	}

	result := &ForwardResult{
		ListPrice:       listPrice,
		TotalDiscount:   totalDiscount,
		DiscountedPrice: discountedPrice,
		CostOfGoods:     costOfGoods,
		FeeBreakdown:    feeBreakdown,
		FeeTotal:        feeTotal,
		ProfitPerOrder:  profit,
		MarginPercent:   margin,
	}
	if discountedPrice.IsNegative() {
		result.Warnings = append(result.Warnings, WarnNegativeDiscountedPrice)
	}
	if profit.IsNegative() {
		result.Warnings = append(result.Warnings, WarnNegativeProfit)
	}
	return result, nil
}
