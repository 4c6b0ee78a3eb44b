package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is customer feedback attached to a product.
type Review struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	CustomerID  uuid.UUID `gorm:"column:customer_id;type:uuid;not null"`
	Customer    *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Description string    `gorm:"column:description;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
