package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a shipping destination owned by a single user.
type Address struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Country   string    `gorm:"column:country;not null"`
	ZipCode   string    `gorm:"column:zip_code;not null"`
	City      string    `gorm:"column:city;not null"`
	Line      string    `gorm:"column:line;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
