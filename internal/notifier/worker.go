// Package notifier consumes job events from RabbitMQ and delivers them to
// the configured notification webhook. Delivery is fire-and-forget: a failed
// webhook POST is logged and the message acknowledged anyway, so a broken
// webhook endpoint never backs up the queue.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/beathaus/jobs-be/shared/rabbitmq"
	"github.com/google/uuid"
)

// Config holds notifier worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	WebhookURL    string
	Concurrency   int
	SendTimeout   time.Duration
	PrefetchCount int
}

// Worker consumes events and fans them out to a pool of sender goroutines.
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	sender        *Sender
	concurrency   int
	prefetchCount int
	workerID      string
	eventsChan    chan *eventMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new notifier worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency * 2
	}

	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		sender:        NewSender(cfg.Logger, cfg.WebhookURL, cfg.SendTimeout),
		concurrency:   concurrency,
		prefetchCount: prefetch,
		workerID:      fmt.Sprintf("notifier-%s", uuid.New().String()[:8]),
		eventsChan:    make(chan *eventMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and delivering events. It blocks until the context
// is canceled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting notifier worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	w.spawnSenderPool(ctx)
	w.dispatch(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping notifier worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Notifier worker stopped")
}
