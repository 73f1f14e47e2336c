package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
	Auth     AuthConfig     `yaml:"auth"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Notifier NotifierConfig `yaml:"notifier"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// RabbitMQConfig holds RabbitMQ connection and exchange/queue configuration
type RabbitMQConfig struct {
	Host       string           `yaml:"host"`
	Port       int              `yaml:"port"`
	User       string           `yaml:"user"`
	Password   string           `yaml:"password"`
	VHost      string           `yaml:"vhost"`
	Exchange   ExchangeConfig   `yaml:"exchange"`
	Queue      QueueConfig      `yaml:"queue"`
	RoutingKey string           `yaml:"routing_key"`
	Connection ConnectionConfig `yaml:"connection"`
	Publish    PublishConfig    `yaml:"publish"`
	Consumer   ConsumerConfig   `yaml:"consumer"`
}

// ExchangeConfig holds RabbitMQ exchange configuration
type ExchangeConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
}

// QueueConfig holds RabbitMQ queue configuration
type QueueConfig struct {
	Name       string `yaml:"name"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
	Exclusive  bool   `yaml:"exclusive"`
}

// ConnectionConfig holds RabbitMQ connection settings
type ConnectionConfig struct {
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	Heartbeat     time.Duration `yaml:"heartbeat"`
}

// PublishConfig holds RabbitMQ publish retry settings
type PublishConfig struct {
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// ConsumerConfig holds RabbitMQ consumer settings
type ConsumerConfig struct {
	PrefetchCount int `yaml:"prefetch_count"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// UploadsConfig holds presigned upload URL settings
type UploadsConfig struct {
	BaseURL string        `yaml:"base_url"`
	Secret  string        `yaml:"secret"`
	TTL     time.Duration `yaml:"ttl"`
}

// NotifierConfig holds notifier service configuration
type NotifierConfig struct {
	WebhookURL  string        `yaml:"webhook_url"`
	Concurrency int           `yaml:"concurrency"`
	SendTimeout time.Duration `yaml:"send_timeout"`
}

// Load reads and parses the configuration file. Environment variables
// JOBS_AUTH_SECRET and JOBS_DB_PASSWORD override their file counterparts so
// secrets can stay out of the config file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if secret := os.Getenv("JOBS_AUTH_SECRET"); secret != "" {
		config.Auth.Secret = secret
	}
	if password := os.Getenv("JOBS_DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}

	return &config, nil
}

// Validate checks the settings both services depend on: the message broker
// connection and topology.
func (c *Config) Validate() error {
	if c.RabbitMQ.Host == "" {
		return fmt.Errorf("rabbitmq host is required")
	}

	if c.RabbitMQ.Port < MinPort || c.RabbitMQ.Port > MaxPort {
		return fmt.Errorf("invalid rabbitmq port: %d (must be between %d and %d)", c.RabbitMQ.Port, MinPort, MaxPort)
	}

	if c.RabbitMQ.Exchange.Name == "" {
		return fmt.Errorf("rabbitmq exchange name is required")
	}

	if c.RabbitMQ.Queue.Name == "" {
		return fmt.Errorf("rabbitmq queue name is required")
	}

	return nil
}

// ValidateAPI checks the additional settings the API service needs: the HTTP
// listener, the database, and token signing.
func (c *Config) ValidateAPI() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < MinPort || c.Database.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required")
	}

	return nil
}

// ValidateNotifier checks the additional settings the notifier service needs.
// The notifier opens no database connection and no HTTP listener, so neither
// is required here.
func (c *Config) ValidateNotifier() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Notifier.WebhookURL == "" {
		return fmt.Errorf("notifier webhook_url is required")
	}

	if c.Notifier.Concurrency <= 0 {
		return fmt.Errorf("notifier concurrency must be greater than 0")
	}

	if c.Notifier.SendTimeout <= 0 {
		return fmt.Errorf("notifier send_timeout must be greater than 0")
	}

	return nil
}
