package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is the vendor-facing storefront identity. One brand per vendor user.
type Brand struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null"`
	Logo        *string   `gorm:"column:logo"`
	Cover       *string   `gorm:"column:cover"`
	VendorID    uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
