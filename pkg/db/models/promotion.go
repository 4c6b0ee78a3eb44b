package models

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is a discount campaign optionally targeted at specific customers.
type Promotion struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Description string     `gorm:"column:description;not null"`
	Discount    float64    `gorm:"column:discount;not null"`
	StartDate   time.Time  `gorm:"column:start_date;not null"`
	EndDate     time.Time  `gorm:"column:end_date;not null"`
	Customers   []Customer `gorm:"many2many:promotion_customers"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
