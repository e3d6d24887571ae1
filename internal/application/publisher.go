package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/kafka"
)

// EventPublisher publishes CloudEvents. Satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

const eventSource = "rental-marketplace"

// publishEvent wraps data in a CloudEvent and publishes it, logging failures
// instead of surfacing them: event delivery is best effort and never fails
// the originating request.
func publishEvent(ctx context.Context, producer EventPublisher, log *zap.Logger, topic, eventType string, data interface{}) {
	if producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		log.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		log.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
