package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer sets QoS and returns the broker delivery channel.
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	channel := w.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// Per-consumer prefetch so slow webhook calls do not pile up unacked
	// messages on one consumer.
	if err := channel.Qos(w.prefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := w.rabbitClient.Consume(w.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("Notifier consumer started",
		slog.String("consumer_tag", w.workerID),
		slog.Int("prefetch_count", w.prefetchCount),
	)

	return deliveries, nil
}

// dispatch reads broker deliveries and hands decoded envelopes to the sender
// pool. Malformed envelopes are NACKed without requeue.
func (w *Worker) dispatch(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Event dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			envelope, err := decodeEnvelope(delivery.Body)
			if err != nil {
				w.logger.Error("Discarding malformed event",
					slog.Any("error", err),
					slog.String("body", string(delivery.Body)),
				)
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					w.logger.Error("Failed to NACK malformed event",
						slog.Any("error", nackErr),
					)
				}
				continue
			}

			msg := &eventMessage{
				envelope:    envelope,
				deliveryTag: delivery.DeliveryTag,
			}

			select {
			case w.eventsChan <- msg:
			case <-ctx.Done():
				w.logger.Info("Event dispatcher stopped while dispatching")
				// Requeue so another consumer can deliver it.
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					w.logger.Error("Failed to NACK event on shutdown",
						slog.Any("error", nackErr),
					)
				}
				return
			}
		}
	}
}

func decodeEnvelope(body []byte) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if envelope.Kind == "" || envelope.Event == "" {
		return nil, fmt.Errorf("%w: missing kind or event", ErrInvalidEvent)
	}

	return &envelope, nil
}
