package enums

import "fmt"

// CodeKind distinguishes the identifier documents attached to a garment.
type CodeKind string

const (
	CodeKindInternal    CodeKind = "internal"
	CodeKindCompliance  CodeKind = "compliance"
	CodeKindMarketplace CodeKind = "marketplace"
)

var validCodeKinds = []CodeKind{
	CodeKindInternal,
	CodeKindCompliance,
	CodeKindMarketplace,
}

var codeKindLabels = map[CodeKind]string{
	CodeKindInternal:    "Internal code",
	CodeKindCompliance:  "Compliance code",
	CodeKindMarketplace: "Marketplace code",
}

// String implements fmt.Stringer.
func (c CodeKind) String() string {
	return string(c)
}

// Label returns the display name for the code kind.
func (c CodeKind) Label() string {
	if label, ok := codeKindLabels[c]; ok {
		return label
	}
	return string(c)
}

// IsValid reports whether the value is a known CodeKind.
func (c CodeKind) IsValid() bool {
	for _, candidate := range validCodeKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCodeKind converts raw input into a CodeKind.
func ParseCodeKind(value string) (CodeKind, error) {
	for _, candidate := range validCodeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid code kind %q", value)
}
