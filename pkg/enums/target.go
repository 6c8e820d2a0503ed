package enums

import "fmt"

// TargetKind distinguishes an absolute profit target from a margin target
// in reverse pricing requests.
type TargetKind string

const (
	TargetFixed   TargetKind = "fixed"
	TargetPercent TargetKind = "percent"
)

var validTargetKinds = []TargetKind{
	TargetFixed,
	TargetPercent,
}

// String implements fmt.Stringer.
func (k TargetKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TargetKind.
func (k TargetKind) IsValid() bool {
	for _, candidate := range validTargetKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTargetKind converts raw input into a TargetKind.
func ParseTargetKind(value string) (TargetKind, error) {
	for _, candidate := range validTargetKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid target kind %q", value)
}
