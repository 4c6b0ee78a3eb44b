package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/internal/products"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

type cartTxRunner struct {
	db *gorm.DB
}

func (r cartTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newCartService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		TxRunner:    cartTxRunner{db: db},
		Repo:        NewRepository(db),
		ProductRepo: products.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func TestServiceAddItem_rejectsUnknownProduct(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	created, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, created.ID, AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
	assert.Contains(t, coded.Error(), "no such product")
}

func TestServiceAddItem_mergesQuantitiesThroughService(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()

	created, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	product := createCartProduct(t, db, "Chia Seeds", "4.90")

	_, err = svc.AddItem(ctx, created.ID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	dto, err := svc.AddItem(ctx, created.ID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, dto.Items, 1)
	assert.Equal(t, 5, dto.Items[0].Quantity)
}
