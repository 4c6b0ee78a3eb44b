package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
)

// CartDTO is the API representation of a cart with its line items.
type CartDTO struct {
	ID        uuid.UUID       `json:"id"`
	Items     []CartItemDTO   `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// CartItemDTO is a single product line in a cart.
type CartItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// AddItemRequest is the payload for adding a product to a cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest is the payload for overwriting an item quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// FromModel maps a cart model with preloaded items into the API shape.
func FromModel(cart *models.Cart) CartDTO {
	dto := CartDTO{
		ID:        cart.ID,
		Items:     make([]CartItemDTO, 0, len(cart.Items)),
		Total:     decimal.Zero,
		CreatedAt: cart.CreatedAt,
	}
	for _, item := range cart.Items {
		line := CartItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.Title = item.Product.Title
			line.UnitPrice = item.Product.UnitPrice
			line.Subtotal = item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			dto.Total = dto.Total.Add(line.Subtotal)
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
