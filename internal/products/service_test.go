package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
	"github.com/mdzoubir/kazidomi-api/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:products_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newProductService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func TestServiceDelete_blockedWhileOrdered(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db, "Herbal Teas")
	vendorID := uuid.New()
	product, err := svc.Create(ctx, vendorID, CreateProductInput{
		Title:      "Chamomile Tea",
		UnitPrice:  decimal.RequireFromString("4.10"),
		CategoryID: category.ID,
	})
	require.NoError(t, err)

	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   uuid.New(),
		ProductID: product.ID,
		Quantity:  1,
		UnitPrice: product.UnitPrice,
	}
	require.NoError(t, db.Create(item).Error)

	err = svc.Delete(ctx, product.ID, vendorID, false)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	_, err = svc.Get(ctx, product.ID)
	assert.NoError(t, err)
}

func TestServiceDelete_unorderedProduct(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db, "Snacks")
	vendorID := uuid.New()
	product, err := svc.Create(ctx, vendorID, CreateProductInput{
		Title:      "Trail Mix",
		UnitPrice:  decimal.RequireFromString("5.75"),
		CategoryID: category.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, product.ID, vendorID, false))

	_, err = svc.Get(ctx, product.ID)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceDelete_otherVendorForbidden(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db, "Snacks")
	product, err := svc.Create(ctx, uuid.New(), CreateProductInput{
		Title:      "Trail Mix",
		UnitPrice:  decimal.RequireFromString("5.75"),
		CategoryID: category.ID,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, product.ID, uuid.New(), false)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestServiceList_filtersByCategory(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	teas := seedCategory(t, db, "Herbal Teas")
	snacks := seedCategory(t, db, "Snacks")
	vendorID := uuid.New()

	_, err := svc.Create(ctx, vendorID, CreateProductInput{
		Title:      "Chamomile Tea",
		UnitPrice:  decimal.RequireFromString("4.10"),
		CategoryID: teas.ID,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, vendorID, CreateProductInput{
		Title:      "Trail Mix",
		UnitPrice:  decimal.RequireFromString("5.75"),
		CategoryID: snacks.ID,
	})
	require.NoError(t, err)

	page, err := svc.List(ctx, ListFilter{CategoryID: &teas.ID}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Chamomile Tea", page.Products[0].Title)
	assert.Empty(t, page.NextCursor)
}

func TestServiceList_paginates(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductService(t, db)
	ctx := context.Background()

	category := seedCategory(t, db, "Pantry")
	vendorID := uuid.New()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, vendorID, CreateProductInput{
			Title:      "Pantry Item",
			UnitPrice:  decimal.RequireFromString("2.00"),
			CategoryID: category.ID,
		})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, ListFilter{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, ListFilter{}, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	assert.NotEmpty(t, second.Products)
}

func TestServiceCreate_rejectsNonPositivePrice(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductService(t, db)

	_, err := svc.Create(context.Background(), uuid.New(), CreateProductInput{
		Title:      "Free Sample",
		UnitPrice:  decimal.Zero,
		CategoryID: uuid.New(),
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
