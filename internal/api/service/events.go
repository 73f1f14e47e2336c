package service

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Notification event names consumed by the notifier service.
const (
	EventKindJob = "job"

	EventJobCreated   = "job.created"
	EventBidSubmitted = "bid.submitted"
	EventBidAccepted  = "bid.accepted"
)

// Event is the envelope delivered to the notification webhook.
type Event struct {
	Kind    string `json:"kind"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Publisher is the publishing side of the message broker.
type Publisher interface {
	Publish(ctx context.Context, body []byte, contentType string) error
}

// Events emits notification events best-effort: a publish failure is logged
// and never fails the operation that produced it.
type Events struct {
	logger *slog.Logger
	pub    Publisher
}

// NewEvents creates an event emitter. A nil publisher disables emission.
func NewEvents(logger *slog.Logger, pub Publisher) *Events {
	return &Events{
		logger: logger,
		pub:    pub,
	}
}

func (e *Events) Emit(ctx context.Context, kind, event string, payload any) {
	if e.pub == nil {
		return
	}

	body, err := json.Marshal(Event{
		Kind:    kind,
		Event:   event,
		Payload: payload,
	})
	if err != nil {
		e.logger.Error("Failed to marshal event",
			slog.String("event", event),
			slog.Any("error", err),
		)
		return
	}

	if err := e.pub.Publish(ctx, body, "application/json"); err != nil {
		e.logger.Error("Failed to publish event",
			slog.String("event", event),
			slog.Any("error", err),
		)
	}
}
