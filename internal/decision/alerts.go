package decision

import (
	"github.com/margindesk/margindesk-backend/internal/pricing"
	"github.com/margindesk/margindesk-backend/pkg/enums"
)

// buildAlerts emits one alert per firing condition, in a fixed order:
// organic loss, thin margin, ROAS vs break-even, CPA vs ceiling, ads-adjusted
// profit, then a closing informational note when nothing else fired.
func buildAlerts(forward *pricing.ForwardResult, metrics Metrics, th Thresholds) []Alert {
	alerts := []Alert{}

	if forward.ProfitPerOrder.IsNegative() {
		alerts = append(alerts, Alert{
			Level:   enums.AlertDanger,
			Message: "selling at a loss before any advertising spend",
		})
	} else if forward.MarginPercent.LessThan(th.MarginRiskyPercent) {
		alerts = append(alerts, Alert{
			Level:   enums.AlertWarning,
			Message: "margin is thin; small cost changes can erase profit",
		})
	}

	if metrics.ROAS != nil {
		switch {
		// the sentinel break-even means no finite ROAS can recover the spend,
		// so the danger branch still applies
		case metrics.ROAS.LessThan(metrics.BreakEvenROAS):
			alerts = append(alerts, Alert{
				Level:   enums.AlertDanger,
				Message: "ROAS is below break-even; ads are losing money",
			})
		case !metrics.BreakEvenROAS.Equal(BreakEvenROASSentinel) &&
			metrics.ROAS.LessThan(metrics.BreakEvenROAS.Mul(th.BreakEvenCushionWarn)):
			alerts = append(alerts, Alert{
				Level:   enums.AlertWarning,
				Message: "ROAS clears break-even with little headroom",
			})
		}
	}

	if metrics.CPA != nil && metrics.MaxCPA.IsPositive() {
		switch {
		case metrics.CPA.GreaterThan(metrics.MaxCPA):
			alerts = append(alerts, Alert{
				Level:   enums.AlertDanger,
				Message: "cost per acquisition exceeds the profit per order",
			})
		case metrics.CPA.GreaterThan(metrics.MaxCPA.Mul(th.CPACautionRatio)):
			alerts = append(alerts, Alert{
				Level:   enums.AlertWarning,
				Message: "cost per acquisition is nearing the profit ceiling",
			})
		}
	}

	if metrics.AdsProfitPerUnit != nil {
		switch {
		case metrics.AdsProfitPerUnit.IsNegative():
			alerts = append(alerts, Alert{
				Level:   enums.AlertDanger,
				Message: "advertising spend turns the product unprofitable overall",
			})
		case forward.ProfitPerOrder.IsPositive() &&
			metrics.AdsProfitPerUnit.LessThan(forward.ProfitPerOrder.Mul(th.AdsDragRatio)):
			alerts = append(alerts, Alert{
				Level:   enums.AlertWarning,
				Message: "advertising consumes more than half of the organic profit",
			})
		}
	}

	if len(alerts) == 0 && !forward.ProfitPerOrder.IsNegative() {
		message := "product is profitable at the current price"
		switch {
		case forward.MarginPercent.GreaterThanOrEqual(th.MarginScalablePercent):
			message = "margin supports scaling advertising spend"
		case forward.MarginPercent.GreaterThanOrEqual(th.MarginHealthyPercent):
			message = "margin is healthy at the current price"
		}
		alerts = append(alerts, Alert{Level: enums.AlertInfo, Message: message})
	}

	return alerts
}
