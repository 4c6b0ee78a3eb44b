package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

func setupAddressesTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	addresses := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  country TEXT NOT NULL,
  zip_code TEXT NOT NULL,
  city TEXT NOT NULL,
  line TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(addresses).Error)
}

func TestServiceAddAddress_roundTrip(t *testing.T) {
	db := setupCustomersTestDB(t)
	setupAddressesTable(t, db)
	svc := newCustomerService(t, db)
	user := seedUser(t, db, "shipping@example.com")

	created, err := svc.AddAddress(context.Background(), user.ID, AddressInput{
		Country: "Belgium",
		ZipCode: "1000",
		City:    "Brussels",
		Line:    "Rue de la Loi 16",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, uuid.Nil, created.ID)

	listed, err := svc.ListMyAddresses(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Brussels", listed[0].City)
}

func TestServiceAddAddress_rejectsBlankFields(t *testing.T) {
	db := setupCustomersTestDB(t)
	setupAddressesTable(t, db)
	svc := newCustomerService(t, db)
	user := seedUser(t, db, "blank@example.com")

	_, err := svc.AddAddress(context.Background(), user.ID, AddressInput{
		Country: "Belgium",
		ZipCode: " ",
		City:    "Brussels",
		Line:    "Rue de la Loi 16",
	})
	require.Error(t, err)

	var coded *pkgerrors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestServiceUpdateAddress_hidesOtherUsersRows(t *testing.T) {
	db := setupCustomersTestDB(t)
	setupAddressesTable(t, db)
	svc := newCustomerService(t, db)
	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")

	created, err := svc.AddAddress(context.Background(), owner.ID, AddressInput{
		Country: "Belgium",
		ZipCode: "1000",
		City:    "Brussels",
		Line:    "Rue de la Loi 16",
	})
	require.NoError(t, err)

	_, err = svc.UpdateAddress(context.Background(), intruder.ID, created.ID, AddressInput{
		Country: "France",
		ZipCode: "75001",
		City:    "Paris",
		Line:    "Rue de Rivoli 1",
	})
	require.Error(t, err)

	var coded *pkgerrors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestServiceDeleteAddress_removesRow(t *testing.T) {
	db := setupCustomersTestDB(t)
	setupAddressesTable(t, db)
	svc := newCustomerService(t, db)
	user := seedUser(t, db, "delete@example.com")

	created, err := svc.AddAddress(context.Background(), user.ID, AddressInput{
		Country: "Belgium",
		ZipCode: "1000",
		City:    "Brussels",
		Line:    "Rue de la Loi 16",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAddress(context.Background(), user.ID, created.ID))

	listed, err := svc.ListMyAddresses(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
