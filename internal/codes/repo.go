package codes

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

// NewRepository builds a code attachment repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, code *models.ProductCode) (*models.ProductCode, error) {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductCode, error) {
	var code models.ProductCode
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *repository) FindByProductAndKind(ctx context.Context, productID uuid.UUID, kind enums.CodeKind) (*models.ProductCode, error) {
	var code models.ProductCode
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND kind = ?", productID, kind).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID, excluding ...enums.CodeKind) ([]models.ProductCode, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID)
	if len(excluding) > 0 {
		query = query.Where("kind NOT IN ?", excluding)
	}

	var items []models.ProductCode
	if err := query.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) DeleteByProductAndKind(ctx context.Context, productID uuid.UUID, kind enums.CodeKind) ([]string, error) {
	var fileKeys []string
	err := r.db.WithContext(ctx).
		Model(&models.ProductCode{}).
		Where("product_id = ? AND kind = ?", productID, kind).
		Pluck("file_key", &fileKeys).Error
	if err != nil {
		return nil, err
	}
	if len(fileKeys) == 0 {
		return nil, nil
	}

	err = r.db.WithContext(ctx).
		Where("product_id = ? AND kind = ?", productID, kind).
		Delete(&models.ProductCode{}).Error
	if err != nil {
		return nil, err
	}
	return fileKeys, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ProductCode{}).Error
}
