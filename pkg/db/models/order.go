package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzoubir/kazidomi-api/pkg/enums"
)

// Order is the durable record of a completed checkout. Orders are never
// deleted by normal flow; the customer reference and the line items are both
// protected by RESTRICT constraints.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Customer      *Customer           `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
	PlacedAt      time.Time           `gorm:"column:placed_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
