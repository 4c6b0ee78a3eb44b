package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mdzoubir/kazidomi-api/pkg/enums"
)

// OrderCreatedItem snapshots one line of a placed order.
type OrderCreatedItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderCreatedEvent is emitted once per successful order placement, after the
// cart has been converted and deleted in the same transaction.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Total         decimal.Decimal     `json:"total"`
	Items         []OrderCreatedItem  `json:"items"`
	PlacedAt      time.Time           `json:"placed_at"`
}

// OrderPaymentUpdatedEvent is emitted when staff move an order between
// payment states.
type OrderPaymentUpdatedEvent struct {
	OrderID        uuid.UUID           `json:"order_id"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	PreviousStatus enums.PaymentStatus `json:"previous_status"`
	PaymentStatus  enums.PaymentStatus `json:"payment_status"`
}

// CustomerRegisteredEvent is emitted when a new user account and its customer
// profile are created.
type CustomerRegisteredEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
}
