package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzoubir/kazidomi-api/pkg/enums"
)

// Stock records a single inventory movement for a product.
type Stock struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID            `gorm:"column:product_id;type:uuid;not null;index"`
	VendorID  uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null"`
	Quantity  int                  `gorm:"column:quantity;not null"`
	Operation enums.StockOperation `gorm:"column:operation;not null"`
	StockDate time.Time            `gorm:"column:stock_date;type:date;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
}
