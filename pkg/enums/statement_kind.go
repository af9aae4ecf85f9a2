package enums

import "fmt"

// StatementKind categorizes approval requests filed by staff.
type StatementKind string

const (
	StatementKindCode StatementKind = "code"
)

var validStatementKinds = []StatementKind{
	StatementKindCode,
}

// String implements fmt.Stringer.
func (s StatementKind) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StatementKind.
func (s StatementKind) IsValid() bool {
	for _, candidate := range validStatementKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStatementKind converts raw input into a StatementKind.
func ParseStatementKind(value string) (StatementKind, error) {
	for _, candidate := range validStatementKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid statement kind %q", value)
}
