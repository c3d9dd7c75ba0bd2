// Package events publishes domain events to Redis pub/sub.
//
// Channels mirror the event type, so a subscriber interested only in
// cancellations can SUBSCRIBE REQUEST_CANCELLED.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types.
const (
	TypeRequestSubmitted     = "REQUEST_SUBMITTED"
	TypeRequestStatusChanged = "REQUEST_STATUS_CHANGED"
	TypeRequestCancelled     = "REQUEST_CANCELLED"
	TypeJobCreated           = "JOB_CREATED"
)

// Event is the JSON envelope sent on every channel.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data"`
}

// New stamps a fresh id and timestamp on an event of the given type.
func New(typ string, data map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher is what domain services depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// RedisPublisher publishes events with PUBLISH <type> <json>.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher wraps an already-connected client.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish serialises ev and sends it on the channel named after its type.
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	if err := p.rdb.Publish(ctx, ev.Type, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// Discard drops every event. Used when no broker is configured and in tests.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, Event) error { return nil }
