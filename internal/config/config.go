// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/espengetz/brandprotocol/pkg/config"
)

// Config holds all configuration for the service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"brandprotocol"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"brandprotocol_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"brandprotocol"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (knowledge cache)
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"KNOWLEDGE_CACHE_TTL" envDefault:"1h"`

	// Kafka; an empty broker list disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// Object storage; an empty endpoint selects the in-memory store, which
	// only makes sense for development.
	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:""`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:""`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" envDefault:""`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"brand-assets"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	AssetBaseURL   string `env:"ASSET_BASE_URL" envDefault:""`

	// Gemini
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	// Page fetching
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	MaxPageSize  int64         `env:"MAX_PAGE_SIZE" envDefault:"10485760"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.TraceSampleRate < 0.0 || c.TraceSampleRate > 1.0 {
		return fmt.Errorf("TRACE_SAMPLE_RATE must be between 0.0 and 1.0, got %g", c.TraceSampleRate)
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("MAX_PAGE_SIZE must be positive, got %d", c.MaxPageSize)
	}
	return nil
}

// EventsEnabled reports whether Kafka publishing is configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaBrokers[0] != ""
}
