package categories

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
)

func setupCategoriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:categories_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
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
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newCategoryService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedCategoryProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Title:      "Chamomile Tea",
		UnitPrice:  decimal.RequireFromString("4.10"),
		VendorID:   uuid.New(),
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestServiceDelete_blockedWhileProductsReference(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc := newCategoryService(t, db)
	ctx := context.Background()

	category, err := svc.Create(ctx, CreateCategoryInput{Name: "Herbal Teas"})
	require.NoError(t, err)
	seedCategoryProduct(t, db, category.ID)

	err = svc.Delete(ctx, category.ID)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	// The category must still exist after the rejected delete.
	_, err = svc.Get(ctx, category.ID)
	assert.NoError(t, err)
}

func TestServiceDelete_emptyCategory(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc := newCategoryService(t, db)
	ctx := context.Background()

	category, err := svc.Create(ctx, CreateCategoryInput{Name: "Supplements"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, category.ID))

	_, err = svc.Get(ctx, category.ID)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceList_includesProductCounts(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc := newCategoryService(t, db)
	ctx := context.Background()

	teas, err := svc.Create(ctx, CreateCategoryInput{Name: "Herbal Teas"})
	require.NoError(t, err)
	empty, err := svc.Create(ctx, CreateCategoryInput{Name: "Snacks"})
	require.NoError(t, err)
	seedCategoryProduct(t, db, teas.ID)
	seedCategoryProduct(t, db, teas.ID)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	counts := map[uuid.UUID]int64{}
	for _, row := range rows {
		counts[row.ID] = row.ProductsCount
	}
	assert.EqualValues(t, 2, counts[teas.ID])
	assert.EqualValues(t, 0, counts[empty.ID])
}

func TestServiceCreate_requiresName(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc := newCategoryService(t, db)

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "   "})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
