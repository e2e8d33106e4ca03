package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventChannel is the redis pub/sub channel carrying emergency events to the
// websocket hub and any other subscriber.
const EventChannel = "emergency_events"

type Event struct {
	Type      string    `json:"type"`
	RefID     uuid.UUID `json:"ref_id"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message,omitempty"`
	Severity  string    `json:"severity,omitempty"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier delivers emergency events to interested parties. Delivery is
// fire-and-forget; callers never block on it.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type redisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) Notifier {
	return &redisNotifier{client: client}
}

func (n *redisNotifier) Notify(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event.Type, err)
		return
	}

	if err := n.client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		log.Printf("failed to publish %s event: %v", event.Type, err)
	}
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that only logs, used when redis is not
// configured.
func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) Notify(ctx context.Context, event Event) {
	log.Printf("notification: %s %s", event.Type, event.RefID)
}
