package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users.
type Message struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SenderID    uuid.UUID `gorm:"column:sender_id;type:uuid;not null;index"`
	RecipientID uuid.UUID `gorm:"column:recipient_id;type:uuid;not null;index"`
	Content     string    `gorm:"column:content;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
