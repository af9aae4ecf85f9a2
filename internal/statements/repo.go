package statements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a statement repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, statement *models.Statement) (*models.Statement, error) {
	if err := r.db.WithContext(ctx).Create(statement).Error; err != nil {
		return nil, err
	}
	return statement, nil
}

func (r *repository) FindPendingByID(ctx context.Context, id uuid.UUID) (*models.Statement, error) {
	var statement models.Statement
	err := r.db.WithContext(ctx).
		Where("id = ? AND moderated = ?", id, false).
		First(&statement).Error
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

func (r *repository) FindPendingByProductAndStaff(ctx context.Context, productID, staffID uuid.UUID) (*models.Statement, error) {
	var statement models.Statement
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND staff_id = ? AND moderated = ?", productID, staffID, false).
		First(&statement).Error
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

func (r *repository) ListPending(ctx context.Context, kind enums.StatementKind) ([]models.Statement, error) {
	var items []models.Statement
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Staff").
		Where("kind = ? AND moderated = ?", kind, false).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) MarkModerated(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Statement{}).
		Where("id = ?", id).
		Update("moderated", true).Error
}
