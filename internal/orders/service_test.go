package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/internal/cart"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/enums"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
	"github.com/mdzoubir/kazidomi-api/pkg/logger"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox"
	"github.com/mdzoubir/kazidomi-api/pkg/pagination"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func setupOrdersTestDB(t *testing.T, withOutbox bool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:orders_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  unit_price NUMERIC NOT NULL,
  vendor_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  placed_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`}
	if withOutbox {
		statements = append(statements, `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`)
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newOrderService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
	outboxSvc := outbox.NewService(outbox.NewRepository(db), logg)

	svc, err := NewService(ServiceParams{
		TxRunner: gormTxRunner{db: db},
		Repo:     NewRepository(db),
		CartRepo: cart.NewRepository(db),
		Outbox:   outboxSvc,
	})
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, title, price string) *models.Product {
	t.Helper()

	unitPrice, err := decimal.NewFromString(price)
	require.NoError(t, err)
	product := &models.Product{
		ID:         uuid.New(),
		Title:      title,
		UnitPrice:  unitPrice,
		VendorID:   uuid.New(),
		CategoryID: uuid.New(),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedCart(t *testing.T, db *gorm.DB, lines map[*models.Product]int) *models.Cart {
	t.Helper()

	basket := &models.Cart{ID: uuid.New()}
	require.NoError(t, db.Create(basket).Error)
	for product, qty := range lines {
		item := &models.CartItem{
			ID:        uuid.New(),
			CartID:    basket.ID,
			ProductID: product.ID,
			Quantity:  qty,
		}
		require.NoError(t, db.Create(item).Error)
	}
	return basket
}

func customerActor() Actor {
	customerID := uuid.New()
	return Actor{UserID: uuid.New(), CustomerID: &customerID}
}

func paginationParams() pagination.Params {
	return pagination.Params{Limit: 25}
}

func TestServicePlaceOrder_snapshotsPricesAndDeletesCart(t *testing.T) {
	db := setupOrdersTestDB(t, true)
	svc := newOrderService(t, db)
	ctx := context.Background()

	butter := seedProduct(t, db, "Almond Butter", "9.50")
	oats := seedProduct(t, db, "Oat Flakes", "3.25")
	basket := seedCart(t, db, map[*models.Product]int{butter: 2, oats: 1})
	actor := customerActor()

	order, err := svc.PlaceOrder(ctx, actor, PlaceOrderRequest{CartID: basket.ID})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, *actor.CustomerID, order.CustomerID)
	assert.Equal(t, enums.PaymentStatusPending.String(), order.PaymentStatus)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("22.25")), "total was %s", order.Total)

	byProduct := map[uuid.UUID]OrderItemDTO{}
	for _, item := range order.Items {
		byProduct[item.ProductID] = item
	}
	assert.True(t, byProduct[butter.ID].UnitPrice.Equal(decimal.RequireFromString("9.50")))
	assert.Equal(t, 2, byProduct[butter.ID].Quantity)
	assert.True(t, byProduct[oats.ID].UnitPrice.Equal(decimal.RequireFromString("3.25")))

	// Later price changes must not affect the placed order.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", butter.ID).
		Update("unit_price", decimal.RequireFromString("15.00")).Error)
	reloaded, err := svc.Get(ctx, actor, order.ID)
	require.NoError(t, err)
	for _, item := range reloaded.Items {
		if item.ProductID == butter.ID {
			assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("9.50")))
		}
	}

	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", basket.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)

	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", basket.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	var events []models.OutboxEvent
	require.NoError(t, db.Where("aggregate_id = ?", order.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderCreated, events[0].EventType)
	assert.Equal(t, enums.AggregateOrder, events[0].AggregateType)
}

func TestServicePlaceOrder_rejectsEmptyCart(t *testing.T) {
	db := setupOrdersTestDB(t, true)
	svc := newOrderService(t, db)
	ctx := context.Background()

	basket := seedCart(t, db, nil)

	_, err := svc.PlaceOrder(ctx, customerActor(), PlaceOrderRequest{CartID: basket.ID})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServicePlaceOrder_rejectsMissingCart(t *testing.T) {
	db := setupOrdersTestDB(t, true)
	svc := newOrderService(t, db)

	_, err := svc.PlaceOrder(context.Background(), customerActor(), PlaceOrderRequest{CartID: uuid.New()})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServicePlaceOrder_requiresCustomerProfile(t *testing.T) {
	db := setupOrdersTestDB(t, true)
	svc := newOrderService(t, db)

	_, err := svc.PlaceOrder(context.Background(), Actor{UserID: uuid.New(), IsStaff: true}, PlaceOrderRequest{CartID: uuid.New()})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestServicePlaceOrder_rollsBackWhenEventInsertFails(t *testing.T) {
	// No outbox table: the event insert fails after the order insert and the
	// cart delete, so the whole transaction must roll back.
	db := setupOrdersTestDB(t, false)
	svc := newOrderService(t, db)
	ctx := context.Background()

	product := seedProduct(t, db, "Raw Honey", "7.80")
	basket := seedCart(t, db, map[*models.Product]int{product: 1})

	_, err := svc.PlaceOrder(ctx, customerActor(), PlaceOrderRequest{CartID: basket.ID})
	require.Error(t, err)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", basket.ID).Count(&cartCount).Error)
	assert.EqualValues(t, 1, cartCount)

	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", basket.ID).Count(&itemCount).Error)
	assert.EqualValues(t, 1, itemCount)
}

func TestServiceList_scopesToCustomer(t *testing.T) {
	db := setupOrdersTestDB(t, true)
	svc := newOrderService(t, db)
	ctx := context.Background()

	product := seedProduct(t, db, "Olive Oil", "12.00")

	first := customerActor()
	second := customerActor()
	for _, actor := range []Actor{first, second} {
		basket := seedCart(t, db, map[*models.Product]int{product: 1})
		_, err := svc.PlaceOrder(ctx, actor, PlaceOrderRequest{CartID: basket.ID})
		require.NoError(t, err)
	}

	own, err := svc.List(ctx, first, paginationParams())
	require.NoError(t, err)
	require.Len(t, own.Orders, 1)
	assert.Equal(t, *first.CustomerID, own.Orders[0].CustomerID)

	staff := Actor{UserID: uuid.New(), IsStaff: true}
	all, err := svc.List(ctx, staff, paginationParams())
	require.NoError(t, err)
	assert.Len(t, all.Orders, 2)
}

func TestServiceGet_hidesOtherCustomersOrders(t *testing.T) {
	db := setupOrdersTestDB(t, true)
	svc := newOrderService(t, db)
	ctx := context.Background()

	product := seedProduct(t, db, "Oat Flakes", "3.25")
	owner := customerActor()
	basket := seedCart(t, db, map[*models.Product]int{product: 1})
	order, err := svc.PlaceOrder(ctx, owner, PlaceOrderRequest{CartID: basket.ID})
	require.NoError(t, err)

	_, err = svc.Get(ctx, customerActor(), order.ID)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	staff := Actor{UserID: uuid.New(), IsStaff: true}
	got, err := svc.Get(ctx, staff, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestServiceUpdatePaymentStatus_emitsEvent(t *testing.T) {
	db := setupOrdersTestDB(t, true)
	svc := newOrderService(t, db)
	ctx := context.Background()

	product := seedProduct(t, db, "Almond Butter", "9.50")
	owner := customerActor()
	basket := seedCart(t, db, map[*models.Product]int{product: 1})
	order, err := svc.PlaceOrder(ctx, owner, PlaceOrderRequest{CartID: basket.ID})
	require.NoError(t, err)

	staff := Actor{UserID: uuid.New(), IsStaff: true}
	updated, err := svc.UpdatePaymentStatus(ctx, staff, order.ID, UpdatePaymentStatusRequest{PaymentStatus: "complete"})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusComplete.String(), updated.PaymentStatus)

	var events []models.OutboxEvent
	require.NoError(t, db.
		Where("aggregate_id = ? AND event_type = ?", order.ID, enums.EventOrderPaymentUpdated).
		Find(&events).Error)
	assert.Len(t, events, 1)

	_, err = svc.UpdatePaymentStatus(ctx, staff, order.ID, UpdatePaymentStatusRequest{PaymentStatus: "bogus"})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
