package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Repository defines persistence operations for the garment registry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByCode(ctx context.Context, internalCode string) (*models.Product, error)
	FindByCodeForUpdate(ctx context.Context, internalCode string) (*models.Product, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Product, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ProductStatus) error
	UpdateInternalCode(ctx context.Context, id uuid.UUID, internalCode string) error
	CountByOrderAndStatus(ctx context.Context, orderID uuid.UUID) (map[enums.ProductStatus]int, error)
}
