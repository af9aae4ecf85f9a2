package codes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Repository defines persistence operations for code attachments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, code *models.ProductCode) (*models.ProductCode, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductCode, error)
	FindByProductAndKind(ctx context.Context, productID uuid.UUID, kind enums.CodeKind) (*models.ProductCode, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, excluding ...enums.CodeKind) ([]models.ProductCode, error)
	// DeleteByProductAndKind removes every (product, kind) row and returns
	// the released file keys.
	DeleteByProductAndKind(ctx context.Context, productID uuid.UUID, kind enums.CodeKind) ([]string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
