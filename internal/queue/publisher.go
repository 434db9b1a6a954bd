package queue

import (
	"context"

	"beauty/advisor/internal/domain/event"

	log "github.com/sirupsen/logrus"
)

// Publisher records activity events. Publishing never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, e event.Event)
}

type streamPublisher struct {
	queue Queue
}

func NewPublisher(q Queue) Publisher {
	return &streamPublisher{queue: q}
}

func (p *streamPublisher) Publish(ctx context.Context, e event.Event) {
	if _, err := p.queue.AddEvent(ctx, e); err != nil {
		log.Warnf("⚠️ Failed to publish %s: %v", e.EventType(), err)
	}
}

// NoopPublisher is used when the event feed is disabled
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, event.Event) {}
