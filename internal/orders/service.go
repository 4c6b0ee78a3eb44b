package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/internal/cart"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/enums"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox/payloads"
	"github.com/mdzoubir/kazidomi-api/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies who is performing an order operation.
type Actor struct {
	UserID     uuid.UUID
	CustomerID *uuid.UUID
	IsStaff    bool
}

// Service exposes order operations.
type Service interface {
	PlaceOrder(ctx context.Context, actor Actor, req PlaceOrderRequest) (*OrderDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, actor Actor, params pagination.Params) (*ListResponse, error)
	UpdatePaymentStatus(ctx context.Context, actor Actor, id uuid.UUID, req UpdatePaymentStatusRequest) (*OrderDTO, error)
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	TxRunner txRunner
	Repo     *Repository
	CartRepo *cart.Repository
	Outbox   *outbox.Service
}

type service struct {
	tx     txRunner
	repo   *Repository
	carts  *cart.Repository
	outbox *outbox.Service
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{
		tx:     params.TxRunner,
		repo:   params.Repo,
		carts:  params.CartRepo,
		outbox: params.Outbox,
	}, nil
}

// PlaceOrder converts a cart into an order in a single transaction: the cart
// is locked, each line's unit price is copied from the product, the cart is
// deleted, and an order_created event lands in the outbox. Either everything
// commits or nothing does.
func (s *service) PlaceOrder(ctx context.Context, actor Actor, req PlaceOrderRequest) (*OrderDTO, error) {
	if actor.CustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "a customer profile is required to place orders")
	}

	var orderID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)

		if _, err := cartRepo.FindByIDForUpdate(ctx, req.CartID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock cart")
		}

		basket, err := cartRepo.FindByID(ctx, req.CartID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart items")
		}
		if len(basket.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		order := &models.Order{
			CustomerID:    *actor.CustomerID,
			PaymentStatus: enums.PaymentStatusPending,
			Items:         make([]models.OrderItem, 0, len(basket.Items)),
		}
		for _, item := range basket.Items {
			if item.Product == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cart references a missing product")
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.UnitPrice,
			})
		}

		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		orderID = created.ID

		if err := cartRepo.Delete(ctx, req.CartID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart")
		}

		return s.emitOrderCreated(ctx, tx, actor, created)
	})
	if err != nil {
		return nil, err
	}

	return s.loadDTO(ctx, orderID)
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !actor.IsStaff {
		if actor.CustomerID == nil || order.CustomerID != *actor.CustomerID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	dto := FromModel(order)
	return &dto, nil
}

// List returns the caller's own orders, or every order for staff.
func (s *service) List(ctx context.Context, actor Actor, params pagination.Params) (*ListResponse, error) {
	var customerID *uuid.UUID
	if !actor.IsStaff {
		if actor.CustomerID == nil {
			return &ListResponse{Orders: []OrderDTO{}}, nil
		}
		customerID = actor.CustomerID
	}

	rows, err := s.repo.List(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	resp := &ListResponse{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		resp.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.PlacedAt, ID: last.ID})
	}
	for i := range rows {
		resp.Orders = append(resp.Orders, FromModel(&rows[i]))
	}
	return resp, nil
}

// UpdatePaymentStatus moves the order's payment state and emits an
// order_payment_updated event in the same transaction.
func (s *service) UpdatePaymentStatus(ctx context.Context, actor Actor, id uuid.UUID, req UpdatePaymentStatusRequest) (*OrderDTO, error) {
	status, err := enums.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment_status must be pending, complete or failed")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.PaymentStatus == status {
		dto := FromModel(order)
		return &dto, nil
	}

	previous := order.PaymentStatus
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdatePaymentStatus(ctx, id, status.String()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment status")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPaymentUpdated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(actor),
			Data: payloads.OrderPaymentUpdatedEvent{
				OrderID:        order.ID,
				CustomerID:     order.CustomerID,
				PreviousStatus: previous,
				PaymentStatus:  status,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.loadDTO(ctx, id)
}

func (s *service) emitOrderCreated(ctx context.Context, tx *gorm.DB, actor Actor, order *models.Order) error {
	items := make([]payloads.OrderCreatedItem, 0, len(order.Items))
	total := decimal.Zero
	for _, item := range order.Items {
		items = append(items, payloads.OrderCreatedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
		total = total.Add(item.Total())
	}

	placedAt := order.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now().UTC()
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actorRef(actor),
		Data: payloads.OrderCreatedEvent{
			OrderID:       order.ID,
			CustomerID:    order.CustomerID,
			PaymentStatus: order.PaymentStatus,
			Total:         total,
			Items:         items,
			PlacedAt:      placedAt,
		},
		Version: 1,
	})
}

func (s *service) loadDTO(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
	}
	dto := FromModel(order)
	return &dto, nil
}

func actorRef(actor Actor) *outbox.ActorRef {
	role := "customer"
	if actor.IsStaff {
		role = "staff"
	}
	return &outbox.ActorRef{UserID: actor.UserID, CustomerID: actor.CustomerID, Role: role}
}
