package works

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Repository defines persistence operations for the append-only work ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, work *models.Work) (*models.Work, error)
	CreateImage(ctx context.Context, image *models.WorkImage) (*models.WorkImage, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Work, error)
	// DeleteByProductAndStatus removes matching ledger rows with their
	// images and returns the released image file keys.
	DeleteByProductAndStatus(ctx context.Context, productID uuid.UUID, status enums.ProductStatus) ([]string, error)
	CountByStaffAndStatus(ctx context.Context, productIDs []uuid.UUID) ([]StaffStatusCount, error)
}

// StaffStatusCount is one cell of the director work breakdown.
type StaffStatusCount struct {
	ProductID uuid.UUID
	StaffID   uuid.UUID
	StaffName string
	Status    enums.ProductStatus
	Total     int
}
