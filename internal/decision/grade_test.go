package decision

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/internal/pricing"
	"github.com/margindesk/margindesk-backend/pkg/enums"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func forwardResult(list, profit string) *pricing.ForwardResult {
	listPrice := dec(list)
	profitPerOrder := dec(profit)
	margin := decimal.Zero
	if listPrice.IsPositive() {
		margin = profitPerOrder.Div(listPrice).Mul(decimal.NewFromInt(100))
	}
	return &pricing.ForwardResult{
		ListPrice:       listPrice,
		DiscountedPrice: listPrice,
		CostOfGoods:     listPrice.Sub(profitPerOrder),
		FeeTotal:        decimal.Zero,
		ProfitPerOrder:  profitPerOrder,
		MarginPercent:   margin,
	}
}

func ads(spend, gmv string, orders int64) *AdAggregate {
	return &AdAggregate{Spend: dec(spend), GMV: dec(gmv), Orders: orders}
}

func TestEvaluateLossIsNotViable(t *testing.T) {
	// negative profit wins over everything, ad data or not
	decision := Evaluate(forwardResult("100000", "-500"), nil, DefaultThresholds())
	if decision.Grade != enums.GradeNotViable {
		t.Fatalf("expected NOT_VIABLE, got %s", decision.Grade)
	}

	decision = Evaluate(forwardResult("100000", "-500"), ads("1", "1000000", 100), DefaultThresholds())
	if decision.Grade != enums.GradeNotViable {
		t.Fatalf("expected NOT_VIABLE with strong ads, got %s", decision.Grade)
	}
	if len(decision.Alerts) == 0 || decision.Alerts[0].Level != enums.AlertDanger {
		t.Fatalf("expected leading danger alert, got %+v", decision.Alerts)
	}
}

func TestEvaluateAdsAdjustedLossIsNotViable(t *testing.T) {
	// organic profit 30000/order, but spend dwarfs GMV:
	// ads profit = 100000 - 70000*10 - 900000 < 0
	forward := forwardResult("100000", "30000")
	decision := Evaluate(forward, ads("900000", "100000", 10), DefaultThresholds())
	if decision.Grade != enums.GradeNotViable {
		t.Fatalf("expected NOT_VIABLE, got %s", decision.Grade)
	}
	if decision.Metrics.AdsProfitPerUnit == nil || !decision.Metrics.AdsProfitPerUnit.IsNegative() {
		t.Fatalf("expected negative ads profit per order, got %+v", decision.Metrics)
	}
}

func TestEvaluateThinMarginIsRisky(t *testing.T) {
	decision := Evaluate(forwardResult("100000", "3000"), nil, DefaultThresholds())
	if decision.Grade != enums.GradeRisky {
		t.Fatalf("expected RISKY at 3%% margin, got %s", decision.Grade)
	}
	if len(decision.Alerts) == 0 || decision.Alerts[0].Level != enums.AlertWarning {
		t.Fatalf("expected thin-margin warning, got %+v", decision.Alerts)
	}
}

func TestEvaluateROASNearBreakEvenIsRisky(t *testing.T) {
	// margin 30%, break-even ROAS = 100000/30000 = 3.33, cushion 4.0;
	// roas = 110000/30000 = 3.67 clears break-even but not the cushion,
	// and ads profit stays positive (110000 - 70000 - 30000 = 10000)
	forward := forwardResult("100000", "30000")
	decision := Evaluate(forward, ads("30000", "110000", 1), DefaultThresholds())
	if decision.Grade != enums.GradeRisky {
		t.Fatalf("expected RISKY, got %s (%s)", decision.Grade, decision.Reason)
	}
}

func TestEvaluateScalable(t *testing.T) {
	// margin 30 >= 25, no ads at all
	decision := Evaluate(forwardResult("100000", "30000"), nil, DefaultThresholds())
	if decision.Grade != enums.GradeScalable {
		t.Fatalf("expected SCALABLE without ads, got %s", decision.Grade)
	}
	if len(decision.Alerts) != 1 || decision.Alerts[0].Level != enums.AlertInfo {
		t.Fatalf("expected single info alert, got %+v", decision.Alerts)
	}

	// margin 30, roas = 500000/50000 = 10 >= 2.0, well above break-even*1.2
	decision = Evaluate(forwardResult("100000", "30000"), ads("50000", "500000", 5), DefaultThresholds())
	if decision.Grade != enums.GradeScalable {
		t.Fatalf("expected SCALABLE with strong ads, got %s (%s)", decision.Grade, decision.Reason)
	}
}

func TestEvaluateViableDefault(t *testing.T) {
	// margin 20: above risky, below scalable
	decision := Evaluate(forwardResult("100000", "20000"), nil, DefaultThresholds())
	if decision.Grade != enums.GradeViable {
		t.Fatalf("expected VIABLE, got %s", decision.Grade)
	}
}

func TestEvaluateTotality(t *testing.T) {
	profits := []string{"-10000", "0", "3000", "10000", "20000", "30000", "90000"}
	adCases := []*AdAggregate{
		nil,
		{Spend: decimal.Zero, GMV: decimal.Zero, Orders: 0},
		ads("1000", "500", 1),
		ads("1000", "50000", 10),
		ads("0", "50000", 10),
	}

	for _, profit := range profits {
		for _, adCase := range adCases {
			decision := Evaluate(forwardResult("100000", profit), adCase, DefaultThresholds())
			if !decision.Grade.IsValid() {
				t.Fatalf("profit %s: invalid grade %q", profit, decision.Grade)
			}
			if decision.Reason == "" {
				t.Fatalf("profit %s: missing reason", profit)
			}
		}
	}
}

func TestEvaluateZeroSpendDerivesNoROAS(t *testing.T) {
	decision := Evaluate(forwardResult("100000", "30000"), ads("0", "50000", 10), DefaultThresholds())
	if decision.Metrics.ROAS != nil {
		t.Fatalf("expected no ROAS at zero spend, got %s", decision.Metrics.ROAS)
	}
	if decision.Metrics.CPA == nil || !decision.Metrics.CPA.IsZero() {
		t.Fatalf("expected CPA 0, got %+v", decision.Metrics.CPA)
	}
}

func TestEvaluateTACoS(t *testing.T) {
	totalSales := dec("200000")
	aggregate := &AdAggregate{Spend: dec("10000"), GMV: dec("60000"), Orders: 5, TotalSales: &totalSales}

	decision := Evaluate(forwardResult("100000", "30000"), aggregate, DefaultThresholds())
	if decision.Metrics.TACoS == nil {
		t.Fatal("expected TACoS when total sales present")
	}
	if !decision.Metrics.TACoS.Equal(dec("0.05")) {
		t.Fatalf("expected TACoS 0.05, got %s", decision.Metrics.TACoS)
	}
}
