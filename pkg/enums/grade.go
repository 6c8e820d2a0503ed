package enums

import "fmt"

// Grade is the viability tier assigned to a store/product pair.
type Grade string

const (
	GradeNotViable Grade = "NOT_VIABLE"
	GradeRisky     Grade = "RISKY"
	GradeViable    Grade = "VIABLE"
	GradeScalable  Grade = "SCALABLE"
)

var validGrades = []Grade{
	GradeNotViable,
	GradeRisky,
	GradeViable,
	GradeScalable,
}

// String implements fmt.Stringer.
func (g Grade) String() string {
	return string(g)
}

// IsValid reports whether the value is a known Grade.
func (g Grade) IsValid() bool {
	for _, candidate := range validGrades {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGrade converts raw input into a Grade.
func ParseGrade(value string) (Grade, error) {
	for _, candidate := range validGrades {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid grade %q", value)
}

// AlertLevel is the severity attached to a decision alert.
type AlertLevel string

const (
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertDanger  AlertLevel = "danger"
)

var validAlertLevels = []AlertLevel{
	AlertInfo,
	AlertWarning,
	AlertDanger,
}

// String implements fmt.Stringer.
func (l AlertLevel) String() string {
	return string(l)
}

// IsValid reports whether the value is a known AlertLevel.
func (l AlertLevel) IsValid() bool {
	for _, candidate := range validAlertLevels {
		if candidate == l {
			return true
		}
	}
	return false
}
