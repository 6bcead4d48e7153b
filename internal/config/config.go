package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/agrios/cartedge/pkg/config"
)

// Config holds all configuration for the cart edge service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CARTEDGE_HTTP_PORT" envDefault:"8080"`

	// Upstream platform API
	UpstreamBaseURL string `env:"UPSTREAM_BASE_URL" envDefault:"http://localhost:3000/api"`

	// Auth
	JWTSecret string `env:"JWT_SECRET,required"`

	// Redis cart mirror. Empty addr falls back to the in-memory mirror.
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:""`
	RedisPass     string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CartMirrorTTL time.Duration `env:"CART_MIRROR_TTL" envDefault:"24h"`

	// Postgres order archive. Empty host disables order history.
	PostgresHost string `env:"POSTGRES_HOST" envDefault:""`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"agrios"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:""`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"cartedge"`

	// Kafka. No brokers disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// Checkout simulation timings
	PaymentDelay time.Duration `env:"CHECKOUT_PAYMENT_DELAY" envDefault:"2s"`
	ResetDelay   time.Duration `env:"CHECKOUT_RESET_DELAY" envDefault:"3s"`

	// Tracing. Empty endpoint disables the exporter.
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:""`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load cartedge config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("upstream base URL is required")
	}
	if c.PaymentDelay < 0 || c.ResetDelay < 0 {
		return fmt.Errorf("checkout delays must not be negative")
	}
	return nil
}

// KafkaEnabled reports whether at least one broker is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaBrokers[0] != ""
}

// PostgresEnabled reports whether the order archive is configured.
func (c *Config) PostgresEnabled() bool {
	return c.PostgresHost != ""
}

// RedisEnabled reports whether the Redis mirror is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
