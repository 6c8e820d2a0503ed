package enums

import "fmt"

// FeeCalcKind represents the canonical fee_calc_kind enum in Postgres.
type FeeCalcKind string

const (
	FeeCalcPercent FeeCalcKind = "percent"
	FeeCalcFixed   FeeCalcKind = "fixed"
)

var validFeeCalcKinds = []FeeCalcKind{
	FeeCalcPercent,
	FeeCalcFixed,
}

// String implements fmt.Stringer.
func (k FeeCalcKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known FeeCalcKind.
func (k FeeCalcKind) IsValid() bool {
	for _, candidate := range validFeeCalcKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseFeeCalcKind converts raw input into a FeeCalcKind.
func ParseFeeCalcKind(value string) (FeeCalcKind, error) {
	for _, candidate := range validFeeCalcKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fee calc kind %q", value)
}

// FeeApplyPoint says which base a percent fee multiplies against.
// Fixed fees carry it for display only.
type FeeApplyPoint string

const (
	FeeApplyOnPrice           FeeApplyPoint = "on_price"
	FeeApplyOnDiscountedPrice FeeApplyPoint = "on_discounted_price"
)

var validFeeApplyPoints = []FeeApplyPoint{
	FeeApplyOnPrice,
	FeeApplyOnDiscountedPrice,
}

// String implements fmt.Stringer.
func (p FeeApplyPoint) String() string {
	return string(p)
}

// IsValid reports whether the value is a known FeeApplyPoint.
func (p FeeApplyPoint) IsValid() bool {
	for _, candidate := range validFeeApplyPoints {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseFeeApplyPoint converts raw input into a FeeApplyPoint.
func ParseFeeApplyPoint(value string) (FeeApplyPoint, error) {
	for _, candidate := range validFeeApplyPoints {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fee apply point %q", value)
}
