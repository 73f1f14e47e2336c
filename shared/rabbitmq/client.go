package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Config holds RabbitMQ connection configuration
type Config struct {
	Host               string
	Port               int
	User               string
	Password           string
	VHost              string
	ExchangeName       string
	ExchangeType       string
	ExchangeDurable    bool
	ExchangeAutoDelete bool
	QueueName          string
	QueueDurable       bool
	QueueAutoDelete    bool
	QueueExclusive     bool
	RoutingKey         string
	RetryAttempts      int
	RetryInterval      time.Duration
	Heartbeat          time.Duration
	PublishRetries     int
	PublishRetryDelay  time.Duration
}

// Client represents a RabbitMQ client
type Client struct {
	config      *Config
	conn        *amqp.Connection
	channel     *amqp.Channel
	logger      *slog.Logger
	isConnected bool
}

// NewClient creates a new RabbitMQ client
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	client := &Client{
		config: config,
		logger: logger,
	}

	if err := client.connect(); err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ client: %w", err)
	}

	return client, nil
}

// connect establishes connection to RabbitMQ with retry logic
func (c *Client) connect() error {
	var err error

	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		c.config.User,
		c.config.Password,
		c.config.Host,
		c.config.Port,
		c.config.VHost,
	)

	amqpConfig := amqp.Config{
		Heartbeat: c.config.Heartbeat,
		Locale:    "en_US",
	}

	attempts := c.config.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		c.logger.Info("Connecting to RabbitMQ",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
		)

		c.conn, err = amqp.DialConfig(dsn, amqpConfig)
		if err == nil {
			break
		}

		c.logger.Error("Failed to connect to RabbitMQ",
			slog.Any("error", err),
			slog.Int("attempt", attempt),
		)

		if attempt < attempts {
			time.Sleep(c.config.RetryInterval)
		}
	}

	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", attempts, err)
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to create channel: %w", err)
	}

	if err := c.setup(); err != nil {
		c.channel.Close()
		c.conn.Close()
		return fmt.Errorf("failed to setup exchange and queue: %w", err)
	}

	c.isConnected = true

	c.logger.Info("RabbitMQ client initialized",
		slog.String("exchange", c.config.ExchangeName),
		slog.String("queue", c.config.QueueName),
	)

	return nil
}

// setup declares exchange, queue, and bindings
func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.config.ExchangeName,
		c.config.ExchangeType,
		c.config.ExchangeDurable,
		c.config.ExchangeAutoDelete,
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.config.QueueName,
		c.config.QueueDurable,
		c.config.QueueAutoDelete,
		c.config.QueueExclusive,
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.config.QueueName,
		c.config.RoutingKey,
		c.config.ExchangeName,
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

// Publish publishes a persistent message, retrying transient failures with a
// linear backoff taken from the publish config.
func (c *Client) Publish(ctx context.Context, body []byte, contentType string) error {
	if !c.isConnected {
		return fmt.Errorf("not connected to RabbitMQ")
	}

	retries := c.config.PublishRetries
	if retries < 0 {
		retries = 0
	}

	delay := c.config.PublishRetryDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		err := c.channel.PublishWithContext(
			ctx,
			c.config.ExchangeName,
			c.config.RoutingKey,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  contentType,
				Body:         body,
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now(),
			},
		)

		if err == nil {
			c.logger.Debug("Message published to RabbitMQ",
				slog.Int("body_size", len(body)),
				slog.String("content_type", contentType),
			)
			return nil
		}

		lastErr = err

		if attempt < retries {
			c.logger.Warn("Failed to publish message to RabbitMQ, retrying...",
				slog.Int("attempt", attempt+1),
				slog.Int("max_retries", retries),
				slog.Any("error", err),
			)
			time.Sleep(delay)
		}
	}

	return fmt.Errorf("failed to publish message after %d attempts: %w", retries+1, lastErr)
}

// Consume starts consuming messages from the queue
func (c *Client) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	if !c.isConnected {
		return nil, fmt.Errorf("not connected to RabbitMQ")
	}

	messages, err := c.channel.Consume(
		c.config.QueueName,
		consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume messages: %w", err)
	}

	c.logger.Info("Started consuming messages from RabbitMQ",
		slog.String("queue", c.config.QueueName),
		slog.String("consumer_tag", consumerTag),
	)

	return messages, nil
}

// GetChannel returns the channel for advanced operations
func (c *Client) GetChannel() *amqp.Channel {
	return c.channel
}

// IsConnected returns the connection status
func (c *Client) IsConnected() bool {
	return c.isConnected && c.conn != nil && !c.conn.IsClosed()
}

// Close closes the RabbitMQ connection
func (c *Client) Close() error {
	c.logger.Info("Closing RabbitMQ connection")

	c.isConnected = false

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("Failed to close RabbitMQ channel",
				slog.Any("error", err),
			)
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close RabbitMQ connection",
				slog.Any("error", err),
			)
			return err
		}
	}

	return nil
}
