package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/config"
	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/enums"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
	"github.com/mdzoubir/kazidomi-api/pkg/logger"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox"
	"github.com/mdzoubir/kazidomi-api/pkg/security"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func setupRegisterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:register_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  is_staff INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  birthday DATETIME,
  phone TEXT,
  profile_picture TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newRegisterService(t *testing.T, db *gorm.DB) RegisterService {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner:       gormTxRunner{db: db},
		Outbox:         outbox.NewService(outbox.NewRepository(db), logg),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterCreatesUserCustomerAndEvent(t *testing.T) {
	db := setupRegisterTestDB(t)
	svc := newRegisterService(t, db)
	ctx := context.Background()

	err := svc.Register(ctx, RegisterRequest{
		Email:     "New.User@Example.com",
		Username:  "newuser",
		Password:  "s3cret-pass",
		FirstName: "New",
		LastName:  "User",
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "new.user@example.com").Error)
	assert.Equal(t, "newuser", user.Username)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	ok, err := security.VerifyPassword("s3cret-pass", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	var customer models.Customer
	require.NoError(t, db.First(&customer, "user_id = ?", user.ID).Error)

	var events []models.OutboxEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventCustomerRegistered, events[0].EventType)
	assert.Equal(t, customer.ID, events[0].AggregateID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupRegisterTestDB(t)
	svc := newRegisterService(t, db)
	ctx := context.Background()

	first := RegisterRequest{
		Email:     "taken@example.com",
		Username:  "first",
		Password:  "s3cret-pass",
		FirstName: "First",
		LastName:  "User",
	}
	require.NoError(t, svc.Register(ctx, first))

	second := first
	second.Username = "second"
	err := svc.Register(ctx, second)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterRollsBackWhenEventInsertFails(t *testing.T) {
	db := setupRegisterTestDB(t)
	require.NoError(t, db.Exec(`DROP TABLE outbox_events`).Error)
	svc := newRegisterService(t, db)
	ctx := context.Background()

	err := svc.Register(ctx, RegisterRequest{
		Email:     "rollback@example.com",
		Username:  "rollback",
		Password:  "s3cret-pass",
		FirstName: "Roll",
		LastName:  "Back",
	})
	require.Error(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)

	var customers int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	assert.Zero(t, customers)
}

func TestRegisterValidatesRequiredFields(t *testing.T) {
	db := setupRegisterTestDB(t)
	svc := newRegisterService(t, db)

	err := svc.Register(context.Background(), RegisterRequest{Username: "nobody", Password: "x"})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
