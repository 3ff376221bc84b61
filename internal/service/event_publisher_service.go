package service

import (
	"context"
	"time"

	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/pkg/events"
)

// IEventPublisher is satisfied by pkg/nats.Publisher.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type nopEventPublisher struct{}

// NewNopEventPublisher is used when NATS is not reachable at startup.
func NewNopEventPublisher() IEventPublisher {
	return nopEventPublisher{}
}

func (nopEventPublisher) Publish(context.Context, events.Event) error {
	return nil
}

// publishEvent never fails the caller; lifecycle events are advisory.
func publishEvent(ctx context.Context, publisher IEventPublisher, log logger.ILogger, event events.Event) {
	if publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := publisher.Publish(pubCtx, event); err != nil {
		log.Warn("events", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
