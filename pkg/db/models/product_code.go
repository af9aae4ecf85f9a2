package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// ProductCode is an identifier document attached to a garment. At most one
// non-superseded row per (product, kind); attaching replaces the previous
// row and releases its stored file.
type ProductCode struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID      `gorm:"column:product_id;type:uuid;not null;index"`
	Kind      enums.CodeKind `gorm:"column:kind;not null"`
	Code      string         `gorm:"column:code;not null"`
	FileKey   string         `gorm:"column:file_key;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *ProductCode) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
