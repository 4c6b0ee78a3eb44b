package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
)

// PlaceOrderRequest is the payload for converting a cart into an order.
type PlaceOrderRequest struct {
	CartID uuid.UUID `json:"cart_id" validate:"required"`
}

// UpdatePaymentStatusRequest is the staff payload for moving the payment state.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// OrderDTO is the API representation of an order.
type OrderDTO struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	PaymentStatus string          `json:"payment_status"`
	Items         []OrderItemDTO  `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PlacedAt      time.Time       `json:"placed_at"`
}

// OrderItemDTO is one snapshot line of an order.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// ListResponse wraps a page of orders with the cursor for the next page.
type ListResponse struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps an order model with preloaded items into the API shape.
func FromModel(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:            order.ID,
		CustomerID:    order.CustomerID,
		PaymentStatus: order.PaymentStatus.String(),
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
		Total:         decimal.Zero,
		PlacedAt:      order.PlacedAt,
	}
	for _, item := range order.Items {
		line := OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total(),
		}
		if item.Product != nil {
			line.Title = item.Product.Title
		}
		dto.Items = append(dto.Items, line)
		dto.Total = dto.Total.Add(line.Total)
	}
	return dto
}
