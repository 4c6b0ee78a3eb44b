package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer extends a User with commerce profile fields. Exactly one row exists
// per user, created inside the registration transaction.
type Customer struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	User           *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Birthday       *time.Time `gorm:"column:birthday;type:date"`
	Phone          *string    `gorm:"column:phone"`
	ProfilePicture *string    `gorm:"column:profile_picture"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
