package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"beauty/advisor/internal/domain/event"
	"beauty/advisor/internal/queue"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// EventHandler is called once per consumed activity event
type EventHandler func(ctx context.Context, e event.Event) error

// EventWorkers consume the activity streams under the configured group
type EventWorkers struct {
	queue       queue.Queue
	groupName   string
	minIdleTime time.Duration
	handle      EventHandler
}

func NewEventWorkers(q queue.Queue, groupName string, minIdleTime time.Duration, handle EventHandler) *EventWorkers {
	if handle == nil {
		handle = LogEvent
	}
	if minIdleTime <= 0 {
		minIdleTime = 30 * time.Second
	}
	return &EventWorkers{
		queue:       q,
		groupName:   groupName,
		minIdleTime: minIdleTime,
		handle:      handle,
	}
}

// LogEvent writes the event to the activity log
func LogEvent(_ context.Context, e event.Event) error {
	switch ev := e.(type) {
	case *event.SelectionChangedEvent:
		log.WithFields(log.Fields{
			"visitor_id": ev.VisitorID,
			"action":     ev.Action,
			"product":    ev.Product,
			"selected":   len(ev.Names),
		}).Info("🛍️ Selection changed")
	case *event.ChatExchangeEvent:
		entry := log.WithFields(log.Fields{
			"chat_id":   ev.ChatID,
			"kind":      ev.Kind,
			"succeeded": ev.Succeeded,
		})
		if ev.Error != "" {
			entry.WithField("error", ev.Error).Warn("💬 Chat exchange failed")
		} else {
			entry.Info("💬 Chat exchange")
		}
	}
	return nil
}

// Run starts numWorkers consumers plus an auto-claimer per stream and
// blocks until ctx is done
func (w *EventWorkers) Run(ctx context.Context, numWorkers int) error {
	if numWorkers <= 0 {
		log.Info("Event workers disabled")
		return nil
	}

	var wg sync.WaitGroup
	for _, eventType := range event.EventTypes {
		w.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamName(eventType), eventType)
	}
	wg.Wait()
	return nil
}

func (w *EventWorkers) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(w.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimed, err := w.queue.AutoClaim(ctx, w.groupName, consumer, streamName, w.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim events for %s: %v", streamName, err)
					continue
				}
				for _, msg := range claimed {
					if err := w.ProcessMessage(ctx, streamName, &msg); err != nil {
						log.Errorf("❌ Failed to process auto-claimed event %s: %v", msg.ID, err)
					}
				}
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s event worker %d", workerType, workerID)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s event worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := w.queue.GetEvent(ctx, w.groupName, consumer, streamName)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Errorf("❌ Failed to read event from %s: %v", streamName, err)
						continue
					}
					if msg != nil {
						if err := w.ProcessMessage(ctx, streamName, msg); err != nil {
							log.Errorf("❌ Failed to process event %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

// ProcessMessage decodes one stream entry, hands it to the handler and
// acknowledges it
func (w *EventWorkers) ProcessMessage(ctx context.Context, streamName string, msg *redis.XMessage) error {
	eventType, ok := msg.Values["event_type"].(string)
	if !ok {
		return fmt.Errorf("invalid event type in message %s", msg.ID)
	}
	eventData, ok := msg.Values["event_data"].(string)
	if !ok {
		return fmt.Errorf("invalid event data in message %s", msg.ID)
	}

	var (
		e   event.Event
		err error
	)
	switch eventType {
	case event.SelectionChangedEventType:
		e, err = event.UnmarshalEvent[*event.SelectionChangedEvent]([]byte(eventData))
	case event.ChatExchangeEventType:
		e, err = event.UnmarshalEvent[*event.ChatExchangeEvent]([]byte(eventData))
	default:
		return fmt.Errorf("unknown event type: %s", eventType)
	}
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}

	if err := w.handle(ctx, e); err != nil {
		return fmt.Errorf("failed to handle %s: %w", eventType, err)
	}

	if err := w.queue.AckEvent(ctx, streamName, w.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}
	return nil
}
