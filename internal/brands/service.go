package brands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

// CreateBrandInput carries the fields accepted when creating a brand.
type CreateBrandInput struct {
	Name        string
	Description string
	Logo        *string
	Cover       *string
}

// UpdateBrandInput carries the optional fields accepted on update.
type UpdateBrandInput struct {
	Name        *string
	Description *string
	Logo        *string
	Cover       *string
}

// Service exposes brand operations.
type Service interface {
	List(ctx context.Context) ([]models.Brand, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	Create(ctx context.Context, vendorID uuid.UUID, input CreateBrandInput) (*models.Brand, error)
	Update(ctx context.Context, id, vendorID uuid.UUID, isStaff bool, input UpdateBrandInput) (*models.Brand, error)
	Delete(ctx context.Context, id, vendorID uuid.UUID, isStaff bool) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list brands")
	}
	return brands, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	brand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load brand")
	}
	return brand, nil
}

// Create registers the vendor's storefront. Each vendor may own one brand.
func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input CreateBrandInput) (*models.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	if _, err := s.repo.FindByVendorID(ctx, vendorID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor already has a brand")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup vendor brand")
	}

	brand := &models.Brand{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Logo:        input.Logo,
		Cover:       input.Cover,
		VendorID:    vendorID,
	}
	created, err := s.repo.Create(ctx, brand)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create brand")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id, vendorID uuid.UUID, isStaff bool, input UpdateBrandInput) (*models.Brand, error) {
	brand, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && brand.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "brand belongs to another vendor")
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			brand.Name = name
		}
	}
	if input.Description != nil {
		brand.Description = strings.TrimSpace(*input.Description)
	}
	if input.Logo != nil {
		brand.Logo = input.Logo
	}
	if input.Cover != nil {
		brand.Cover = input.Cover
	}

	updated, err := s.repo.Update(ctx, brand)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update brand")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id, vendorID uuid.UUID, isStaff bool) error {
	brand, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !isStaff && brand.VendorID != vendorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "brand belongs to another vendor")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete brand")
	}
	return nil
}
