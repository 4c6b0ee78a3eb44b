package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
)

// ProductDTO is the API representation of a product.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Category    *CategoryRef    `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CategoryRef is the nested category summary embedded in product payloads.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ListResponse wraps a page of products with the cursor for the next page.
type ListResponse struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps a persistence model into the API shape.
func FromModel(product *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		UnitPrice:   product.UnitPrice,
		VendorID:    product.VendorID,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = &CategoryRef{ID: product.Category.ID, Name: product.Category.Name}
	}
	return dto
}
