package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beathaus/jobs-be/internal/config"
	"github.com/beathaus/jobs-be/internal/notifier"
	"github.com/beathaus/jobs-be/shared/logger"
	"github.com/beathaus/jobs-be/shared/rabbitmq"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("NOTIFIER_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/notifier-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateNotifier(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := logger.New(&logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cfg.Logging.Output,
		EnableSource: cfg.Logging.EnableCaller,
		TimeFormat:   time.RFC3339,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting notifier service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	rabbitClient, err := rabbitmq.NewClient(&rabbitmq.Config{
		Host:               cfg.RabbitMQ.Host,
		Port:               cfg.RabbitMQ.Port,
		User:               cfg.RabbitMQ.User,
		Password:           cfg.RabbitMQ.Password,
		VHost:              cfg.RabbitMQ.VHost,
		ExchangeName:       cfg.RabbitMQ.Exchange.Name,
		ExchangeType:       cfg.RabbitMQ.Exchange.Type,
		ExchangeDurable:    cfg.RabbitMQ.Exchange.Durable,
		ExchangeAutoDelete: cfg.RabbitMQ.Exchange.AutoDelete,
		QueueName:          cfg.RabbitMQ.Queue.Name,
		QueueDurable:       cfg.RabbitMQ.Queue.Durable,
		QueueAutoDelete:    cfg.RabbitMQ.Queue.AutoDelete,
		QueueExclusive:     cfg.RabbitMQ.Queue.Exclusive,
		RoutingKey:         cfg.RabbitMQ.RoutingKey,
		RetryAttempts:      cfg.RabbitMQ.Connection.RetryAttempts,
		RetryInterval:      cfg.RabbitMQ.Connection.RetryInterval,
		Heartbeat:          cfg.RabbitMQ.Connection.Heartbeat,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}

	appLogger.Info("RabbitMQ connection established")

	workerInstance := notifier.NewWorker(&notifier.Config{
		Logger:        appLogger.Logger,
		RabbitClient:  rabbitClient,
		WebhookURL:    cfg.Notifier.WebhookURL,
		Concurrency:   cfg.Notifier.Concurrency,
		SendTimeout:   cfg.Notifier.SendTimeout,
		PrefetchCount: cfg.RabbitMQ.Consumer.PrefetchCount,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := workerInstance.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	appLogger.Info("Notifier service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Received signal, shutting down gracefully",
			slog.String("signal", sig.String()),
		)
	case err := <-errChan:
		appLogger.Error("Notifier worker error",
			slog.Any("error", err),
		)
		return err
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		workerInstance.Stop()
		close(done)
	}()

	select {
	case <-done:
		appLogger.Info("Notifier worker stopped gracefully")
	case <-shutdownCtx.Done():
		appLogger.Warn("Notifier shutdown timeout exceeded, forcing exit")
	}

	if rabbitClient != nil {
		rabbitClient.Close()
	}

	appLogger.Info("Notifier service shutdown complete")
	return nil
}
