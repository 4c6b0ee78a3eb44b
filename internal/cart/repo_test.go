package cart

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
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  unit_price NUMERIC NOT NULL,
  vendor_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  created_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func createCartProduct(t *testing.T, db *gorm.DB, title string, price string) *models.Product {
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

func TestRepositoryUpsertItem_mergesQuantities(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	basket, err := repo.Create(ctx, &models.Cart{})
	require.NoError(t, err)
	product := createCartProduct(t, db, "Almond Butter", "9.50")

	require.NoError(t, repo.UpsertItem(ctx, &models.CartItem{
		CartID:    basket.ID,
		ProductID: product.ID,
		Quantity:  2,
	}))
	require.NoError(t, repo.UpsertItem(ctx, &models.CartItem{
		CartID:    basket.ID,
		ProductID: product.ID,
		Quantity:  3,
	}))

	loaded, err := repo.FindByID(ctx, basket.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 5, loaded.Items[0].Quantity)
	assert.Equal(t, product.ID, loaded.Items[0].ProductID)
}

func TestRepositoryUpsertItem_separateRowsPerProduct(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	basket, err := repo.Create(ctx, &models.Cart{})
	require.NoError(t, err)
	first := createCartProduct(t, db, "Olive Oil", "12.00")
	second := createCartProduct(t, db, "Oat Flakes", "3.25")

	require.NoError(t, repo.UpsertItem(ctx, &models.CartItem{CartID: basket.ID, ProductID: first.ID, Quantity: 1}))
	require.NoError(t, repo.UpsertItem(ctx, &models.CartItem{CartID: basket.ID, ProductID: second.ID, Quantity: 4}))

	loaded, err := repo.FindByID(ctx, basket.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
}

func TestRepositoryDelete_removesItems(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	basket, err := repo.Create(ctx, &models.Cart{})
	require.NoError(t, err)
	product := createCartProduct(t, db, "Raw Honey", "7.80")
	require.NoError(t, repo.UpsertItem(ctx, &models.CartItem{CartID: basket.ID, ProductID: product.ID, Quantity: 1}))

	require.NoError(t, repo.Delete(ctx, basket.ID))

	_, err = repo.FindByID(ctx, basket.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", basket.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestRepositoryDeleteItem_missingRow(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	basket, err := repo.Create(ctx, &models.Cart{})
	require.NoError(t, err)

	err = repo.DeleteItem(ctx, basket.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
