package notifier

import (
	"context"
	"fmt"
	"log/slog"
)

// spawnSenderPool spawns N sender goroutines based on concurrency
// configuration.
func (w *Worker) spawnSenderPool(ctx context.Context) {
	w.logger.Info("Spawning sender pool",
		slog.Int("concurrency", w.concurrency),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.senderLoop(ctx, i)
	}
}

// senderLoop delivers events to the webhook. Failures are logged and the
// message acknowledged anyway; notifications are best-effort.
func (w *Worker) senderLoop(ctx context.Context, senderNum int) {
	defer w.wg.Done()

	senderName := fmt.Sprintf("%s-%d", w.workerID, senderNum)
	w.logger.Info("Sender goroutine started",
		slog.String("sender_name", senderName),
	)

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Sender goroutine stopping - stopChan closed",
				slog.String("sender_name", senderName),
			)
			return

		case <-ctx.Done():
			w.logger.Info("Sender goroutine stopping - context canceled",
				slog.String("sender_name", senderName),
			)
			return

		case msg, ok := <-w.eventsChan:
			if !ok {
				return
			}

			if err := w.sender.Send(ctx, msg.envelope); err != nil {
				w.logger.Error("Webhook delivery failed",
					slog.String("sender_name", senderName),
					slog.String("event", msg.envelope.Event),
					slog.Any("error", err),
				)
			}

			channel := w.rabbitClient.GetChannel()
			if channel == nil {
				w.logger.Error("Failed to get RabbitMQ channel for ACK",
					slog.String("sender_name", senderName),
				)
				continue
			}

			if ackErr := channel.Ack(msg.deliveryTag, false); ackErr != nil {
				w.logger.Error("Failed to ACK event",
					slog.String("sender_name", senderName),
					slog.String("event", msg.envelope.Event),
					slog.Any("error", ackErr),
				)
			}
		}
	}
}
