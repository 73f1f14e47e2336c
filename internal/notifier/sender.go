package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Sender POSTs event envelopes to the notification webhook.
type Sender struct {
	logger *slog.Logger
	url    string
	client *http.Client
}

func NewSender(logger *slog.Logger, url string, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Sender{
		logger: logger,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Send delivers one envelope. Non-2xx responses count as failures.
func (s *Sender) Send(ctx context.Context, envelope *Envelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	s.logger.Debug("Webhook delivered",
		slog.String("event", envelope.Event),
		slog.Int("status", resp.StatusCode),
	)

	return nil
}
