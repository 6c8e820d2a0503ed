package decision

import (
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/internal/pricing"
	"github.com/margindesk/margindesk-backend/pkg/enums"
)

// BreakEvenROASSentinel mirrors the reverse-pricing sentinel for an unbounded
// break-even ROAS.
var BreakEvenROASSentinel = pricing.BreakEvenROASSentinel

// Thresholds is the immutable tuning surface of the grading rules. Callers
// pass it in; the engine holds no global state.
type Thresholds struct {
	MarginRiskyPercent    decimal.Decimal
	MarginHealthyPercent  decimal.Decimal
	MarginScalablePercent decimal.Decimal
	ROASScalable          decimal.Decimal
	BreakEvenCushionRisky decimal.Decimal
	BreakEvenCushionWarn  decimal.Decimal
	CPACautionRatio       decimal.Decimal
	AdsDragRatio          decimal.Decimal
}

// DefaultThresholds returns the production grading thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MarginRiskyPercent:    decimal.RequireFromString("5"),
		MarginHealthyPercent:  decimal.RequireFromString("15"),
		MarginScalablePercent: decimal.RequireFromString("25"),
		ROASScalable:          decimal.RequireFromString("2.0"),
		BreakEvenCushionRisky: decimal.RequireFromString("1.2"),
		BreakEvenCushionWarn:  decimal.RequireFromString("1.3"),
		CPACautionRatio:       decimal.RequireFromString("0.8"),
		AdsDragRatio:          decimal.RequireFromString("0.5"),
	}
}

// AdAggregate is the summed advertising history for one store+product pair.
type AdAggregate struct {
	Spend      decimal.Decimal  `json:"spend"`
	GMV        decimal.Decimal  `json:"gmv"`
	Orders     int64            `json:"orders"`
	TotalSales *decimal.Decimal `json:"total_sales,omitempty"`
}

// Alert is one graded observation attached to a decision.
type Alert struct {
	Level   enums.AlertLevel `json:"level"`
	Message string           `json:"message"`
}

// Metrics carries every derived advertising figure the decision used. Nil
// pointers mean the figure was not derivable from the inputs.
type Metrics struct {
	BreakEvenROAS    decimal.Decimal  `json:"break_even_roas"`
	MaxCPA           decimal.Decimal  `json:"max_cpa"`
	ROAS             *decimal.Decimal `json:"roas,omitempty"`
	CPA              *decimal.Decimal `json:"cpa,omitempty"`
	AdsProfitTotal   *decimal.Decimal `json:"ads_profit_total,omitempty"`
	AdsProfitPerUnit *decimal.Decimal `json:"ads_profit_per_order,omitempty"`
	TACoS            *decimal.Decimal `json:"tacos,omitempty"`
}

// Decision is one fresh classification of a store+product pair. Nothing is
// persisted; every call re-grades from scratch.
type Decision struct {
	Grade          enums.Grade     `json:"grade"`
	Reason         string          `json:"reason"`
	ProfitPerOrder decimal.Decimal `json:"profit_per_order"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	Metrics        Metrics         `json:"metrics"`
	Alerts         []Alert         `json:"alerts"`
}

// Evaluate grades a forward pricing result against the thresholds, blending
// in aggregated ad economics when available. It always returns exactly one
// grade; ads is optional and ignored when it has no orders.
func Evaluate(forward *pricing.ForwardResult, ads *AdAggregate, th Thresholds) *Decision {
	metrics := deriveMetrics(forward, ads)

	decision := &Decision{
		ProfitPerOrder: forward.ProfitPerOrder,
		MarginPercent:  forward.MarginPercent,
		Metrics:        metrics,
	}

	decision.Grade, decision.Reason = classify(forward, metrics, th)
	decision.Alerts = buildAlerts(forward, metrics, th)
	return decision
}

func deriveMetrics(forward *pricing.ForwardResult, ads *AdAggregate) Metrics {
	metrics := Metrics{
		BreakEvenROAS: BreakEvenROASSentinel,
		MaxCPA:        decimal.Zero,
	}
	if forward.ProfitPerOrder.IsPositive() {
		metrics.BreakEvenROAS = forward.ListPrice.Div(forward.ProfitPerOrder)
		metrics.MaxCPA = forward.ProfitPerOrder
	}

	if ads == nil || ads.Orders <= 0 {
		return metrics
	}

	orders := decimal.NewFromInt(ads.Orders)

	if ads.Spend.IsPositive() {
		roas := ads.GMV.Div(ads.Spend)
		metrics.ROAS = &roas
	}

	cpa := ads.Spend.Div(orders)
	metrics.CPA = &cpa

	perOrderCost := forward.CostOfGoods.Add(forward.FeeTotal)
	adsProfitTotal := ads.GMV.Sub(perOrderCost.Mul(orders)).Sub(ads.Spend)
	metrics.AdsProfitTotal = &adsProfitTotal
	adsProfitPerOrder := adsProfitTotal.Div(orders)
	metrics.AdsProfitPerUnit = &adsProfitPerOrder

	if ads.TotalSales != nil && ads.TotalSales.IsPositive() {
		tacos := ads.Spend.Div(*ads.TotalSales)
		metrics.TACoS = &tacos
	}

	return metrics
}

func classify(forward *pricing.ForwardResult, metrics Metrics, th Thresholds) (enums.Grade, string) {
	if forward.ProfitPerOrder.IsNegative() {
		return enums.GradeNotViable, "profit per order is negative"
	}
	if metrics.AdsProfitPerUnit != nil && metrics.AdsProfitPerUnit.IsNegative() {
		return enums.GradeNotViable, "advertising turns the product unprofitable"
	}

	if forward.MarginPercent.LessThan(th.MarginRiskyPercent) {
		return enums.GradeRisky, "margin is below the risk threshold"
	}
	if metrics.ROAS != nil && metrics.ROAS.LessThan(metrics.BreakEvenROAS.Mul(th.BreakEvenCushionRisky)) {
		return enums.GradeRisky, "ROAS sits too close to break-even"
	}

	if forward.MarginPercent.GreaterThanOrEqual(th.MarginScalablePercent) &&
		(metrics.ROAS == nil || metrics.ROAS.GreaterThanOrEqual(th.ROASScalable)) {
		return enums.GradeScalable, "margin and ad economics support scaling"
	}

	return enums.GradeViable, "profitable with acceptable margins"
}
