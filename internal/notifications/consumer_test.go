package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/enums"
	"github.com/mdzoubir/kazidomi-api/pkg/logger"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox/payloads"
)

type stubNotificationWriter struct {
	created []models.Notification
	err     error
}

func (s *stubNotificationWriter) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, *notification)
	return notification, nil
}

type stubCustomerLoader struct {
	customer *models.Customer
	err      error
}

func (s *stubCustomerLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.customer, nil
}

func buildOrderCreatedMessage(t *testing.T, customerID uuid.UUID) *pubsub.Message {
	t.Helper()

	event := payloads.OrderCreatedEvent{
		OrderID:       uuid.New(),
		CustomerID:    customerID,
		PaymentStatus: enums.PaymentStatusPending,
		Total:         decimal.RequireFromString("22.25"),
		PlacedAt:      time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &pubsub.Message{
		Attributes: map[string]string{"event_type": string(enums.EventOrderCreated)},
		Data:       envelope,
	}
}

func newTestConsumer(t *testing.T, writer *stubNotificationWriter, loader *stubCustomerLoader) *Consumer {
	t.Helper()

	consumer, err := NewConsumer(writer, loader, &pubsub.Subscriber{}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewConsumer: %v", err)
	}
	return consumer
}

func TestConsumerWritesNotificationForOrderCreated(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	customerID := uuid.New()
	writer := &stubNotificationWriter{}
	loader := &stubCustomerLoader{customer: &models.Customer{ID: customerID, UserID: userID}}
	consumer := newTestConsumer(t, writer, loader)

	result := consumer.process(context.Background(), buildOrderCreatedMessage(t, customerID))
	if !result.ack || result.nack {
		t.Fatalf("expected ack result, got %+v", result)
	}
	if len(writer.created) != 1 {
		t.Fatalf("expected one notification, got %d", len(writer.created))
	}
	if writer.created[0].UserID != userID {
		t.Fatalf("notification targeted wrong user: %s", writer.created[0].UserID)
	}
}

func TestConsumerAcksUnknownCustomer(t *testing.T) {
	t.Parallel()

	writer := &stubNotificationWriter{}
	loader := &stubCustomerLoader{err: gorm.ErrRecordNotFound}
	consumer := newTestConsumer(t, writer, loader)

	result := consumer.process(context.Background(), buildOrderCreatedMessage(t, uuid.New()))
	if !result.ack || result.nack {
		t.Fatalf("expected ack for unknown customer, got %+v", result)
	}
	if len(writer.created) != 0 {
		t.Fatalf("expected no notification rows, got %d", len(writer.created))
	}
}

func TestConsumerNacksOnWriteFailure(t *testing.T) {
	t.Parallel()

	writer := &stubNotificationWriter{err: gorm.ErrInvalidDB}
	loader := &stubCustomerLoader{customer: &models.Customer{ID: uuid.New(), UserID: uuid.New()}}
	consumer := newTestConsumer(t, writer, loader)

	result := consumer.process(context.Background(), buildOrderCreatedMessage(t, uuid.New()))
	if !result.nack {
		t.Fatalf("expected nack on write failure, got %+v", result)
	}
}

func TestConsumerAcksUnhandledEventType(t *testing.T) {
	t.Parallel()

	writer := &stubNotificationWriter{}
	loader := &stubCustomerLoader{}
	consumer := newTestConsumer(t, writer, loader)

	msg := &pubsub.Message{
		Attributes: map[string]string{"event_type": string(enums.EventCustomerRegistered)},
		Data:       []byte(`{"version":1,"data":{}}`),
	}
	result := consumer.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("expected ack for unhandled event, got %+v", result)
	}
}
