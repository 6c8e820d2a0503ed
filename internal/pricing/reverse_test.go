package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/enums"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

func TestPriceReverseFixedTarget(t *testing.T) {
	// target 50000, hpp 6750, C_p = 0.05 => X = 56750/0.95 = 59736.84..., ceil 59737
	fees := []FeeLine{percentFee("commission", "0.05", enums.FeeApplyOnPrice)}

	result, err := PriceReverse(dec("6750"), fees, Target{Kind: enums.TargetFixed, Value: dec("50000")})
	if err != nil {
		t.Fatalf("PriceReverse: %v", err)
	}

	if !result.RecommendedPrice.Equal(dec("59737")) {
		t.Fatalf("expected recommended price 59737, got %s", result.RecommendedPrice)
	}
	if result.RawPrice.GreaterThan(result.RecommendedPrice) {
		t.Fatalf("raw price %s above recommended %s", result.RawPrice, result.RecommendedPrice)
	}
	if result.ExpectedProfit.LessThan(dec("50000")) {
		t.Fatalf("rounding under-shot the target: %s", result.ExpectedProfit)
	}
	// profit = 59737*0.95 - 6750 = 50000.15
	if !result.ExpectedProfit.Equal(dec("50000.15")) {
		t.Fatalf("expected profit 50000.15, got %s", result.ExpectedProfit)
	}
	if !result.MaxCPA.Equal(result.ExpectedProfit) {
		t.Fatalf("expected max CPA to equal profit, got %s", result.MaxCPA)
	}
	if result.BreakEvenROAS.Equal(BreakEvenROASSentinel) {
		t.Fatal("break-even ROAS should be finite for positive profit")
	}
}

func TestPriceReverseMarginTarget(t *testing.T) {
	// M = 0.3, C_p = 0.05, C_f = 2000, hpp = 8000
	// X = 10000 / (1 - 0.05 - 0.3) = 15384.6..., ceil 15385
	fees := []FeeLine{
		percentFee("commission", "0.05", enums.FeeApplyOnPrice),
		fixedFee("fulfillment", "2000"),
	}

	result, err := PriceReverse(dec("8000"), fees, Target{Kind: enums.TargetPercent, Value: dec("0.3")})
	if err != nil {
		t.Fatalf("PriceReverse: %v", err)
	}

	if !result.RecommendedPrice.Equal(dec("15385")) {
		t.Fatalf("expected recommended price 15385, got %s", result.RecommendedPrice)
	}
	if result.ExpectedMarginPercent.LessThan(dec("30")) {
		t.Fatalf("rounding under-shot the margin target: %s", result.ExpectedMarginPercent)
	}
}

func TestPriceReverseForwardConsistency(t *testing.T) {
	fees := []FeeLine{
		percentFee("commission", "0.08", enums.FeeApplyOnPrice),
		percentFee("service", "0.02", enums.FeeApplyOnPrice),
		fixedFee("fulfillment", "1200"),
	}
	cost := dec("23400")

	t.Run("fixed target", func(t *testing.T) {
		target := Target{Kind: enums.TargetFixed, Value: dec("17500")}
		reverse, err := PriceReverse(cost, fees, target)
		if err != nil {
			t.Fatalf("PriceReverse: %v", err)
		}

		forward, err := PriceForward(reverse.RecommendedPrice, nil, fees, cost)
		if err != nil {
			t.Fatalf("PriceForward at recommended price: %v", err)
		}
		if forward.ProfitPerOrder.LessThan(target.Value) {
			t.Fatalf("forward profit %s under target %s", forward.ProfitPerOrder, target.Value)
		}
	})

	t.Run("margin target", func(t *testing.T) {
		target := Target{Kind: enums.TargetPercent, Value: dec("0.2")}
		reverse, err := PriceReverse(cost, fees, target)
		if err != nil {
			t.Fatalf("PriceReverse: %v", err)
		}

		forward, err := PriceForward(reverse.RecommendedPrice, nil, fees, cost)
		if err != nil {
			t.Fatalf("PriceForward at recommended price: %v", err)
		}
		if forward.MarginPercent.LessThan(dec("20")) {
			t.Fatalf("forward margin %s under target 20%%", forward.MarginPercent)
		}
	})
}

func TestPriceReverseInfeasibleTarget(t *testing.T) {
	// 100% percent fees: denominator 1 - C_p = 0
	fees := []FeeLine{percentFee("everything", "1.0", enums.FeeApplyOnPrice)}

	_, err := PriceReverse(dec("6750"), fees, Target{Kind: enums.TargetFixed, Value: dec("1000")})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInfeasibleTarget {
		t.Fatalf("expected INFEASIBLE_TARGET, got %v", err)
	}

	// margin target pushes the denominator negative even with modest fees
	fees = []FeeLine{percentFee("commission", "0.5", enums.FeeApplyOnPrice)}
	_, err = PriceReverse(dec("1000"), fees, Target{Kind: enums.TargetPercent, Value: dec("0.6")})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInfeasibleTarget {
		t.Fatalf("expected INFEASIBLE_TARGET for margin case, got %v", err)
	}
}

func TestPriceReverseZeroCostIsValid(t *testing.T) {
	result, err := PriceReverse(decimal.Zero, nil, Target{Kind: enums.TargetFixed, Value: dec("1000")})
	if err != nil {
		t.Fatalf("zero cost of goods must be valid: %v", err)
	}
	if !result.RecommendedPrice.Equal(dec("1000")) {
		t.Fatalf("expected price 1000, got %s", result.RecommendedPrice)
	}
}

func TestPriceReverseSentinelROASWhenProfitNotPositive(t *testing.T) {
	// zero target on zero cost: price 0, profit 0
	result, err := PriceReverse(decimal.Zero, nil, Target{Kind: enums.TargetFixed, Value: decimal.Zero})
	if err != nil {
		t.Fatalf("PriceReverse: %v", err)
	}
	if !result.BreakEvenROAS.Equal(BreakEvenROASSentinel) {
		t.Fatalf("expected sentinel ROAS, got %s", result.BreakEvenROAS)
	}
	if !result.MaxCPA.IsZero() {
		t.Fatalf("expected max CPA 0, got %s", result.MaxCPA)
	}
}

func TestPriceReverseRejectsInvalidTargets(t *testing.T) {
	_, err := PriceReverse(dec("100"), nil, Target{Kind: "ratio", Value: dec("0.5")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for unknown kind, got %v", err)
	}

	_, err = PriceReverse(dec("100"), nil, Target{Kind: enums.TargetFixed, Value: dec("-5")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for negative fixed target, got %v", err)
	}

	for _, margin := range []string{"0", "1", "1.5"} {
		_, err = PriceReverse(dec("100"), nil, Target{Kind: enums.TargetPercent, Value: dec(margin)})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected VALIDATION_ERROR for margin %s, got %v", margin, err)
		}
	}

	_, err = PriceReverse(dec("-1"), nil, Target{Kind: enums.TargetFixed, Value: dec("10")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for negative cost, got %v", err)
	}
}
