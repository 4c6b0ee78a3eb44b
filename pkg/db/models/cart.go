package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the ephemeral pre-checkout basket. It is deleted (cascading to its
// items) once converted into an order.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
