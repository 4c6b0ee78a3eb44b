package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzoubir/kazidomi-api/internal/users"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
)

// CustomerDTO is the transport shape for a customer profile.
type CustomerDTO struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Birthday       *time.Time     `json:"birthday,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	ProfilePicture *string        `json:"profile_picture,omitempty"`
	User           *users.UserDTO `json:"user,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// UpdateCustomerInput carries the mutable profile fields.
type UpdateCustomerInput struct {
	Birthday       *time.Time
	Phone          *string
	ProfilePicture *string
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:             c.ID,
		UserID:         c.UserID,
		Birthday:       c.Birthday,
		Phone:          c.Phone,
		ProfilePicture: c.ProfilePicture,
		User:           users.FromModel(c.User),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
