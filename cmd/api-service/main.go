package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beathaus/jobs-be/internal/api/auth"
	"github.com/beathaus/jobs-be/internal/api/handler"
	"github.com/beathaus/jobs-be/internal/api/router"
	"github.com/beathaus/jobs-be/internal/api/service"
	"github.com/beathaus/jobs-be/internal/api/storage"
	"github.com/beathaus/jobs-be/internal/config"
	"github.com/beathaus/jobs-be/shared/logger"
	"github.com/beathaus/jobs-be/shared/postgresql"
	"github.com/beathaus/jobs-be/shared/rabbitmq"
	"github.com/gin-gonic/gin"
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

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPI(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	dbClient, err := initPostgreSQL(&cfg.Database, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	appLogger.Info("Database connection established")

	rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}

	appLogger.Info("RabbitMQ connection established")

	// Wire storage, services and router
	store := storage.NewStorage(dbClient, appLogger.Logger)
	events := service.NewEvents(appLogger.Logger, rabbitClient)
	jobService := service.NewJobService(appLogger.Logger, store, events)
	escrowService := service.NewEscrowService(appLogger.Logger, store, store)
	uploadSigner := service.NewUploadSigner(cfg.Uploads.BaseURL, cfg.Uploads.Secret, cfg.Uploads.TTL)
	tokens := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := router.SetupRouter(&handler.Dependencies{
		Logger:   appLogger.Logger,
		Jobs:     jobService,
		Escrow:   escrowService,
		Uploads:  uploadSigner,
		DBClient: dbClient,
	}, tokens)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("API service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer func() {
		cancel()
		if dbClient != nil {
			dbClient.Close()
		}
		if rabbitClient != nil {
			rabbitClient.Close()
		}
	}()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	})
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	return postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}, logger)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	return rabbitmq.NewClient(&rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
	}, logger)
}
