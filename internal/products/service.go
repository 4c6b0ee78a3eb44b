package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
	"github.com/mdzoubir/kazidomi-api/pkg/pagination"
)

// CreateProductInput carries the fields accepted when creating a product.
type CreateProductInput struct {
	Title       string
	Description *string
	UnitPrice   decimal.Decimal
	CategoryID  uuid.UUID
}

// UpdateProductInput carries the optional fields accepted on update.
type UpdateProductInput struct {
	Title       *string
	Description *string
	UnitPrice   *decimal.Decimal
	CategoryID  *uuid.UUID
}

// Service exposes product catalog operations.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id, vendorID uuid.UUID, isStaff bool, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id, vendorID uuid.UUID, isStaff bool) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	rows, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	resp := &ListResponse{Products: make([]ProductDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		resp.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		resp.Products = append(resp.Products, FromModel(&rows[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be positive")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}

	product := &models.Product{
		Title:       title,
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		VendorID:    vendorID,
		CategoryID:  input.CategoryID,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id, vendorID uuid.UUID, isStaff bool, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}

	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			product.Title = title
		}
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be positive")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.CategoryID != nil && *input.CategoryID != uuid.Nil {
		product.CategoryID = *input.CategoryID
		product.Category = nil
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	dto := FromModel(updated)
	return &dto, nil
}

// Delete removes the product unless an order line item references it. Ordered
// products are kept so historical orders stay resolvable.
func (s *service) Delete(ctx context.Context, id, vendorID uuid.UUID, isStaff bool) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !isStaff && product.VendorID != vendorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}

	count, err := s.repo.CountOrderItems(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count product order items")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by orders and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}
