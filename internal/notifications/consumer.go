package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzoubir/kazidomi-api/pkg/db/models"
	"github.com/mdzoubir/kazidomi-api/pkg/enums"
	"github.com/mdzoubir/kazidomi-api/pkg/logger"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox/payloads"
)

type notificationWriter interface {
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type processResult struct {
	ack  bool
	nack bool
}

// Consumer watches the order events subscription and writes notification rows
// for the affected customer's user.
type Consumer struct {
	repo         notificationWriter
	customers    customerLoader
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer wires the dependencies required to turn order events into
// notifications.
func NewConsumer(repo notificationWriter, customers customerLoader, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, errors.New("notification repository is required")
	}
	if customers == nil {
		return nil, errors.New("customer repository is required")
	}
	if subscription == nil {
		return nil, errors.New("order events subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		repo:         repo,
		customers:    customers,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes order events until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]interface{}{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal event envelope", err)
		return processResult{ack: true}
	}

	switch enums.OutboxEventType(eventType) {
	case enums.EventOrderCreated:
		return c.handleOrderCreated(ctx, logCtx, envelope.Data)
	case enums.EventOrderPaymentUpdated:
		return c.handlePaymentUpdated(ctx, logCtx, envelope.Data)
	default:
		c.logg.Info(logCtx, "skipping unhandled event type")
		return processResult{ack: true}
	}
}

func (c *Consumer) handleOrderCreated(ctx context.Context, logCtx context.Context, data json.RawMessage) processResult {
	var event payloads.OrderCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal order_created payload", err)
		return processResult{ack: true}
	}

	message := fmt.Sprintf("Your order %s was placed for a total of %s.", event.OrderID, event.Total.StringFixed(2))
	return c.notifyCustomer(ctx, logCtx, event.CustomerID, message)
}

func (c *Consumer) handlePaymentUpdated(ctx context.Context, logCtx context.Context, data json.RawMessage) processResult {
	var event payloads.OrderPaymentUpdatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal order_payment_updated payload", err)
		return processResult{ack: true}
	}

	message := fmt.Sprintf("Payment for order %s is now %s.", event.OrderID, event.PaymentStatus)
	return c.notifyCustomer(ctx, logCtx, event.CustomerID, message)
}

func (c *Consumer) notifyCustomer(ctx context.Context, logCtx context.Context, customerID uuid.UUID, message string) processResult {
	customer, err := c.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.logg.Warn(logCtx, "event references unknown customer")
			return processResult{ack: true}
		}
		c.logg.Error(logCtx, "failed to load customer", err)
		return processResult{nack: true}
	}

	notification := &models.Notification{
		UserID:  customer.UserID,
		Message: message,
	}
	if _, err := c.repo.Create(ctx, notification); err != nil {
		c.logg.Error(logCtx, "failed to create notification", err)
		return processResult{nack: true}
	}

	c.logg.Info(c.logg.WithField(logCtx, "user_id", customer.UserID.String()), "notification created")
	return processResult{ack: true}
}
