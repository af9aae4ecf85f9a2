package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Statement is a pending approval request filed by marking staff. Created
// unmoderated, moderated exactly once, immutable thereafter.
type Statement struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	Product   *Product            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	StaffID   uuid.UUID           `gorm:"column:staff_id;type:uuid;not null;index"`
	Staff     *StaffProfile       `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE"`
	Kind      enums.StatementKind `gorm:"column:kind;not null"`
	Moderated bool                `gorm:"column:moderated;not null;default:false"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Statement) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
