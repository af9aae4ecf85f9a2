package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Work is one immutable ledger fact: staff S produced status X on product I.
// Rows are appended by the transition engine and never updated; the only
// delete path is the approval-rollback compensation.
type Work struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	StaffID   uuid.UUID           `gorm:"column:staff_id;type:uuid;not null;index"`
	Staff     *StaffProfile       `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE"`
	Status    enums.ProductStatus `gorm:"column:status;not null"`
	Comment   *string             `gorm:"column:comment"`
	Images    []WorkImage         `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *Work) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WorkImage is an evidence photo owned exclusively by one work row; its
// stored file is released when the row goes away.
type WorkImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	WorkID    uuid.UUID `gorm:"column:work_id;type:uuid;not null;index"`
	FileKey   string    `gorm:"column:file_key;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *WorkImage) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
