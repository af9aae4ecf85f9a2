package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// Order is a client production order. Deleting an order cascades to its
// planned lines and every garment received against it.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ClientID  uuid.UUID         `gorm:"column:client_id;type:uuid;not null"`
	Client    *ClientProfile    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Status    enums.OrderStatus `gorm:"column:status;not null;default:new"`
	Lines     []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Products  []Product         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderLine is one planned article (by title) within an order.
type OrderLine struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	Title     string             `gorm:"column:title;not null"`
	Variants  []OrderLineVariant `gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// OrderLineVariant is the planned amount of one color/size combination.
type OrderLineVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LineID    uuid.UUID `gorm:"column:line_id;type:uuid;not null;index"`
	Color     string    `gorm:"column:color;not null"`
	Size      string    `gorm:"column:size;not null"`
	Amount    int       `gorm:"column:amount;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *OrderLineVariant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
