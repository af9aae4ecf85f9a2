package statements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Repository defines persistence operations for approval statements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, statement *models.Statement) (*models.Statement, error)
	// FindPendingByID only matches unmoderated rows, so a second resolve
	// of the same statement misses.
	FindPendingByID(ctx context.Context, id uuid.UUID) (*models.Statement, error)
	FindPendingByProductAndStaff(ctx context.Context, productID, staffID uuid.UUID) (*models.Statement, error)
	ListPending(ctx context.Context, kind enums.StatementKind) ([]models.Statement, error)
	MarkModerated(ctx context.Context, id uuid.UUID) error
}
