package orders

import (
	"github.com/google/uuid"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// CreateInput opens a new production order for a client.
type CreateInput struct {
	ClientID uuid.UUID
	Status   enums.OrderStatus
}

// LineImport is one planned article in a bulk import.
type LineImport struct {
	Title    string
	Variants []VariantImport
}

// VariantImport is one planned color/size amount.
type VariantImport struct {
	Color  string
	Size   string
	Amount int
}

// ProgressReport is the director's view of one order: a per-status summary
// over every garment plus a planned-versus-received breakdown per line.
type ProgressReport struct {
	OrderID uuid.UUID      `json:"order_id"`
	Summary []StatusTotal  `json:"summary"`
	Lines   []LineProgress `json:"lines"`
}

// StatusTotal is one lifecycle stage with its garment count.
type StatusTotal struct {
	Status enums.ProductStatus `json:"status"`
	Label  string              `json:"label"`
	Total  int                 `json:"total"`
}

// LineProgress compares a planned line against received garments.
type LineProgress struct {
	Title         string            `json:"title"`
	PlannedTotal  int               `json:"planned_total"`
	ReceivedTotal int               `json:"received_total"`
	Variants      []VariantProgress `json:"variants"`
}

// VariantProgress is the per color/size slice of a line.
type VariantProgress struct {
	Color          string            `json:"color"`
	Size           string            `json:"size"`
	PlannedAmount  int               `json:"planned_amount"`
	ReceivedAmount int               `json:"received_amount"`
	Works          []StatusBreakdown `json:"works"`
}

// StatusBreakdown groups the variant's ledger rows by stage and staff.
type StatusBreakdown struct {
	Status enums.ProductStatus `json:"status"`
	Label  string              `json:"label"`
	Amount int                 `json:"amount"`
	Staff  []StaffAmount       `json:"staff"`
}

// StaffAmount is one staff member's share of a breakdown cell.
type StaffAmount struct {
	FullName string `json:"full_name"`
	Amount   int    `json:"amount"`
}
