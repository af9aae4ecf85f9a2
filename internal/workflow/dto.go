package workflow

import (
	"io"

	"github.com/google/uuid"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Actor is the staff identity the calling layer resolved from the token.
type Actor struct {
	StaffID uuid.UUID
	Role    enums.StaffRole
}

// ReceiveInput registers one physical garment against an order.
type ReceiveInput struct {
	OrderID      uuid.UUID
	Title        string
	Color        string
	Size         string
	InternalCode string
	LabelName    string
	Label        io.Reader
}

// InspectionInput is the quality-control submission.
type InspectionInput struct {
	InternalCode string
	Comment      *string
	IsDefect     bool
	ImageName    string
	Image        io.Reader
}

// PackingInput moves a garment through the packing station.
type PackingInput struct {
	InternalCode string
}

// MarkingInput moves a garment through the marking station.
type MarkingInput struct {
	InternalCode string
}
