package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Product is one physical garment of one (order, title, color, size)
// combination. InternalCode is a soft unique key maintained by convention:
// workflow lookups resolve the first match by creation time, and marking may
// overwrite the code with the compliance code value.
type Product struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Title        string              `gorm:"column:title;not null"`
	Color        string              `gorm:"column:color;not null"`
	Size         string              `gorm:"column:size;not null"`
	InternalCode string              `gorm:"column:internal_code;not null;index"`
	Status       enums.ProductStatus `gorm:"column:status;not null"`
	Codes        []ProductCode       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Works        []Work              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
