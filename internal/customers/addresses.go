package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

// AddressDTO is the transport shape for a shipping address.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Country   string    `json:"country"`
	ZipCode   string    `json:"zip_code"`
	City      string    `json:"city"`
	Line      string    `json:"line"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddressInput carries the writable address fields.
type AddressInput struct {
	Country string `json:"country" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	City    string `json:"city" validate:"required"`
	Line    string `json:"line" validate:"required"`
}

func addressFromModel(a *models.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:        a.ID,
		Country:   a.Country,
		ZipCode:   a.ZipCode,
		City:      a.City,
		Line:      a.Line,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ListAddresses returns every address owned by the given user, oldest first.
func (r *Repository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindAddress loads an address by primary key.
func (r *Repository) FindAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// CreateAddress inserts an address row for the given user.
func (r *Repository) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress persists the mutable address fields.
func (r *Repository) UpdateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Save(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes an address row.
func (r *Repository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func validateAddressInput(input AddressInput) (AddressInput, error) {
	input.Country = strings.TrimSpace(input.Country)
	input.ZipCode = strings.TrimSpace(input.ZipCode)
	input.City = strings.TrimSpace(input.City)
	input.Line = strings.TrimSpace(input.Line)
	if input.Country == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "country is required")
	}
	if input.ZipCode == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "zip code is required")
	}
	if input.City == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if input.Line == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "address line is required")
	}
	return input, nil
}

func (s *service) ListMyAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	rows, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	out := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *addressFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	input, err := validateAddressInput(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateAddress(ctx, &models.Address{
		UserID:  userID,
		Country: input.Country,
		ZipCode: input.ZipCode,
		City:    input.City,
		Line:    input.Line,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
	}
	return addressFromModel(created), nil
}

func (s *service) UpdateAddress(ctx context.Context, userID, id uuid.UUID, input AddressInput) (*AddressDTO, error) {
	address, err := s.loadOwnedAddress(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	input, err = validateAddressInput(input)
	if err != nil {
		return nil, err
	}
	address.Country = input.Country
	address.ZipCode = input.ZipCode
	address.City = input.City
	address.Line = input.Line
	updated, err := s.repo.UpdateAddress(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update address")
	}
	return addressFromModel(updated), nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.loadOwnedAddress(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteAddress(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
	}
	return nil
}

// loadOwnedAddress hides other users' addresses behind a not-found error.
func (s *service) loadOwnedAddress(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	address, err := s.repo.FindAddress(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return address, nil
}
