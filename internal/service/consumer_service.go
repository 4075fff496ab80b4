// FILE: internal/service/consumer_service.go
package service

import (
	"context"

	"user-directory-be/internal/pkg/logger"
	"user-directory-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService writes every record change to the audit log.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	audit      logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, topicName string, audit logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		audit:      audit,
	}
}

// Consume subscribes and returns; messages are handled in the background
// until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Undecodable events are acked; redelivery would not fix them.
	defer msg.Ack()

	evt, err := events.Decode(msg.Payload)
	if err != nil {
		cs.audit.Error("Audit", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	details := make(map[string]interface{}, len(evt.Data)+1)
	for k, v := range evt.Data {
		details[k] = v
	}
	details["occurred_at"] = evt.OccurredAt

	cs.audit.Info("Audit", evt.Type, details)
}
