package queue

import (
	"context"
	"testing"
	"time"

	"beauty/advisor/internal/config"
	"beauty/advisor/internal/domain/event"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newQueue(t *testing.T) (*RedisQueue, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q, err := NewRedisQueue(context.Background(), rdb, config.EventsConfig{Enabled: true, ConsumerGroup: "test_group"})
	if err != nil {
		t.Fatalf("NewRedisQueue: %v", err)
	}
	q.block = 10 * time.Millisecond
	return q, rdb
}

func TestNewRedisQueue_CreatesGroups(t *testing.T) {
	q, rdb := newQueue(t)
	ctx := context.Background()

	for _, eventType := range event.EventTypes {
		if n, err := rdb.Exists(ctx, StreamName(eventType)).Result(); err != nil || n != 1 {
			t.Fatalf("expected stream for %s, got %d %v", eventType, n, err)
		}
		// Reading through the group fails with NOGROUP when it is missing
		if _, err := q.GetEvent(ctx, "test_group", "probe", StreamName(eventType)); err != nil {
			t.Fatalf("GetEvent %s: %v", eventType, err)
		}
	}

	// Running again is harmless
	if err := q.EnsureStreamsExist(ctx); err != nil {
		t.Fatalf("EnsureStreamsExist twice: %v", err)
	}
}

func TestAddEvent_WritesToTypedStream(t *testing.T) {
	q, rdb := newQueue(t)
	ctx := context.Background()

	id, err := q.AddEvent(ctx, &event.SelectionChangedEvent{
		VisitorID: "v1",
		Action:    "toggle",
		Product:   "A",
		Names:     []string{"A"},
	})
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}

	msgs, err := rdb.XRange(ctx, "routine:stream:SelectionChangedEvent", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != id {
		t.Fatalf("expected one message with id %s, got %+v", id, msgs)
	}
	if msgs[0].Values["event_type"] != event.SelectionChangedEventType {
		t.Fatalf("unexpected event_type %v", msgs[0].Values["event_type"])
	}

	decoded, err := event.UnmarshalEvent[*event.SelectionChangedEvent]([]byte(msgs[0].Values["event_data"].(string)))
	if err != nil {
		t.Fatalf("UnmarshalEvent: %v", err)
	}
	if decoded.VisitorID != "v1" || decoded.Product != "A" || len(decoded.Names) != 1 {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestGetEventAndAck(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()
	stream := StreamName(event.ChatExchangeEventType)

	msg, err := q.GetEvent(ctx, q.GroupName(), "c1", stream)
	if err != nil || msg != nil {
		t.Fatalf("expected no message on empty stream, got %v %v", msg, err)
	}

	id, err := q.AddEvent(ctx, &event.ChatExchangeEvent{ChatID: "chat", Kind: "message", Succeeded: true})
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}

	msg, err = q.GetEvent(ctx, q.GroupName(), "c1", stream)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if msg == nil || msg.ID != id {
		t.Fatalf("expected message %s, got %+v", id, msg)
	}
	if err := q.AckEvent(ctx, stream, q.GroupName(), msg.ID); err != nil {
		t.Fatalf("AckEvent: %v", err)
	}
}

func TestPublisher_SwallowsErrors(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()

	q, err := NewRedisQueue(context.Background(), rdb, config.EventsConfig{ConsumerGroup: "g"})
	if err != nil {
		t.Fatalf("NewRedisQueue: %v", err)
	}
	mr.Close()

	// Must not panic or block
	NewPublisher(q).Publish(context.Background(), &event.ChatExchangeEvent{ChatID: "x"})
	NoopPublisher{}.Publish(context.Background(), &event.ChatExchangeEvent{ChatID: "x"})
}
