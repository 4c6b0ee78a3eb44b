package outbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:outbox_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
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
);`
	index := `
CREATE UNIQUE INDEX IF NOT EXISTS ux_outbox_events_event_aggregate
  ON outbox_events (event_type, aggregate_type, aggregate_id)
  WHERE event_type IN ('order_created', 'customer_registered');`
	require.NoError(t, db.Exec(ddl).Error)
	require.NoError(t, db.Exec(index).Error)
	return db
}

func countEvents(t *testing.T, db *gorm.DB, aggregateID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).
		Where("aggregate_id = ?", aggregateID).
		Count(&count).Error)
	return count
}

func TestEmitIfNotExistsWritesOnce(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	customerID := uuid.New()
	event := DomainEvent{
		EventType:     enums.EventCustomerRegistered,
		AggregateType: enums.AggregateCustomer,
		AggregateID:   customerID,
		Data:          map[string]any{"customer_id": customerID.String()},
		Version:       1,
	}

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.EmitIfNotExists(ctx, tx, event)
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.EmitIfNotExists(ctx, tx, event)
	}))

	assert.EqualValues(t, 1, countEvents(t, db, customerID))
}

func TestEmitIfNotExistsAllowsDistinctAggregates(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	for _, id := range []uuid.UUID{first, second} {
		event := DomainEvent{
			EventType:     enums.EventCustomerRegistered,
			AggregateType: enums.AggregateCustomer,
			AggregateID:   id,
			Data:          map[string]any{"customer_id": id.String()},
			Version:       1,
		}
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return svc.EmitIfNotExists(ctx, tx, event)
		}))
	}

	assert.EqualValues(t, 1, countEvents(t, db, first))
	assert.EqualValues(t, 1, countEvents(t, db, second))
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(setupOutboxTestDB(t)), nil)

	err := svc.Emit(context.Background(), nil, DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
	})
	require.Error(t, err)
}
