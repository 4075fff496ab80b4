package service

import (
	"context"
	"fmt"

	"user-directory-be/internal/pkg/logger"
	"user-directory-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventMirror forwards events to an external bus. Implemented by the NATS
// publisher.
type EventMirror interface {
	Publish(ctx context.Context, event events.Event) error
}

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	mirror    EventMirror
	logger    logger.ILogger
}

// NewPublisherService publishes on the in-process bus. mirror may be nil.
func NewPublisherService(topicName string, publisher message.Publisher, mirror EventMirror, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		mirror:    mirror,
		logger:    log,
	}
}

// Publish fails only if the in-process bus rejects the event. Mirror errors
// are logged.
func (s *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())

	if err := s.publisher.Publish(s.topicName, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}

	if s.mirror != nil {
		if err := s.mirror.Publish(ctx, event); err != nil {
			s.logger.Warn("PublisherService", "Failed to mirror event", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}
	return nil
}
