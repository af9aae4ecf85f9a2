package works

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

// NewRepository builds a work ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, work *models.Work) (*models.Work, error) {
	if err := r.db.WithContext(ctx).Create(work).Error; err != nil {
		return nil, err
	}
	return work, nil
}

func (r *repository) CreateImage(ctx context.Context, image *models.WorkImage) (*models.WorkImage, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Work, error) {
	var items []models.Work
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Images").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) DeleteByProductAndStatus(ctx context.Context, productID uuid.UUID, status enums.ProductStatus) ([]string, error) {
	var workIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Work{}).
		Where("product_id = ? AND status = ?", productID, status).
		Pluck("id", &workIDs).Error
	if err != nil {
		return nil, err
	}
	if len(workIDs) == 0 {
		return nil, nil
	}

	var fileKeys []string
	err = r.db.WithContext(ctx).
		Model(&models.WorkImage{}).
		Where("work_id IN ?", workIDs).
		Pluck("file_key", &fileKeys).Error
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("work_id IN ?", workIDs).
		Delete(&models.WorkImage{}).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", workIDs).
		Delete(&models.Work{}).Error; err != nil {
		return nil, err
	}

	return fileKeys, nil
}

func (r *repository) CountByStaffAndStatus(ctx context.Context, productIDs []uuid.UUID) ([]StaffStatusCount, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var rows []StaffStatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Work{}).
		Select("works.product_id, works.staff_id, staff_profiles.full_name AS staff_name, works.status, COUNT(*) AS total").
		Joins("JOIN staff_profiles ON staff_profiles.id = works.staff_id").
		Where("works.product_id IN ?", productIDs).
		Group("works.product_id, works.staff_id, staff_profiles.full_name, works.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
