package enums

import "fmt"

// ProductStatus tracks which workshop stage a garment last cleared.
type ProductStatus string

const (
	ProductStatusReceived ProductStatus = "received"
	ProductStatusOTK      ProductStatus = "otk"
	ProductStatusPacked   ProductStatus = "packed"
	ProductStatusMarked   ProductStatus = "marked"
	ProductStatusGrouped  ProductStatus = "grouped"
	ProductStatusDefect   ProductStatus = "defect"
)

var validProductStatuses = []ProductStatus{
	ProductStatusReceived,
	ProductStatusOTK,
	ProductStatusPacked,
	ProductStatusMarked,
	ProductStatusGrouped,
	ProductStatusDefect,
}

var productStatusLabels = map[ProductStatus]string{
	ProductStatusReceived: "Reception",
	ProductStatusOTK:      "Quality control",
	ProductStatusPacked:   "Packing",
	ProductStatusMarked:   "Marking",
	ProductStatusGrouped:  "Grouping",
	ProductStatusDefect:   "Defect",
}

// String implements fmt.Stringer.
func (p ProductStatus) String() string {
	return string(p)
}

// Label returns the human-readable stage name shown in dashboards.
func (p ProductStatus) Label() string {
	if label, ok := productStatusLabels[p]; ok {
		return label
	}
	return string(p)
}

// IsValid reports whether the value is a known ProductStatus.
func (p ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ProductStatuses returns every lifecycle stage in canonical order.
func ProductStatuses() []ProductStatus {
	out := make([]ProductStatus, len(validProductStatuses))
	copy(out, validProductStatuses)
	return out
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
