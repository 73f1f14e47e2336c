package notifier

import (
	"encoding/json"
	"errors"
)

var (
	// ErrInvalidEvent is returned when an event envelope is malformed
	ErrInvalidEvent = errors.New("invalid event envelope")
)

// Envelope is the wire format published by the API service and forwarded to
// the notification webhook unchanged.
type Envelope struct {
	Kind    string          `json:"kind"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// eventMessage pairs a decoded envelope with its broker delivery tag.
type eventMessage struct {
	envelope    *Envelope
	deliveryTag uint64
}
