package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/kafka"
)

// NotificationConsumer listens to booking lifecycle events and emits
// notification log lines. A real notification channel (email, push) would
// hang off handleBookingEvent.
type NotificationConsumer struct {
	consumer *kafka.Consumer
	logger   *zap.Logger
}

// NewNotificationConsumer creates a new NotificationConsumer.
func NewNotificationConsumer(brokers []string, groupID string, logger *zap.Logger) *NotificationConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger)
	return &NotificationConsumer{
		consumer: consumer,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NotificationConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NotificationConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case BookingCreated, BookingConfirmed, BookingRejected, BookingCancelled, BookingCompleted:
		return c.handleBookingEvent(cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *NotificationConsumer) handleBookingEvent(cloudEvent kafka.CloudEvent) error {
	var evt BookingEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse booking event data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("booking notification",
		zap.String("type", cloudEvent.Type),
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("listing_id", evt.ListingID.String()),
		zap.String("renter_id", evt.RenterID.String()),
		zap.String("status", evt.Status),
	)
	return nil
}
