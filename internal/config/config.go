package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment   string `env:"APP_ENV" envDefault:"development"`
	Server        ServerConfig
	Database      DatabaseConfig
	Observability ObservabilityConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Shopify       ShopifyConfig
	Sync          SyncConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATELIMIT_RPS" envDefault:"10"`
	Burst             int     `env:"RATELIMIT_BURST" envDefault:"20"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port         string        `env:"PORT" envDefault:"4000"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"90s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	User         string `env:"DB_USER" envDefault:"storepulse"`
	Password     string `env:"DB_PASSWORD"`
	Database     string `env:"DB_NAME" envDefault:"storepulse"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"2"`
}

// ObservabilityConfig holds logging and tracing configuration
type ObservabilityConfig struct {
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"json"`
	OTELEnabled    bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"storepulse"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION" envDefault:"0.1.0"`
}

// CORSConfig holds the browser origin policy
type CORSConfig struct {
	FrontendOrigin string `env:"FRONTEND_ORIGIN"`
}

// ShopifyConfig holds settings for the remote commerce API client
type ShopifyConfig struct {
	APIVersion     string        `env:"SHOPIFY_API_VERSION" envDefault:"2024-01"`
	Scheme         string        `env:"SHOPIFY_SCHEME" envDefault:"https"`
	RequestTimeout time.Duration `env:"SHOPIFY_REQUEST_TIMEOUT" envDefault:"10s"`
}

// SyncConfig holds scheduler configuration
type SyncConfig struct {
	Interval  time.Duration `env:"SYNC_INTERVAL" envDefault:"10m"`
	Enabled   bool          `env:"SYNC_ENABLED" envDefault:"true"`
	OnStartup bool          `env:"SYNC_ON_STARTUP" envDefault:"false"`
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive")
	}
	if c.Shopify.RequestTimeout <= 0 {
		return fmt.Errorf("SHOPIFY_REQUEST_TIMEOUT must be positive")
	}
	if c.Shopify.Scheme != "http" && c.Shopify.Scheme != "https" {
		return fmt.Errorf("SHOPIFY_SCHEME must be http or https")
	}
	return nil
}

// IsProduction reports whether the process runs with production policies.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the browser origins accepted in production.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	if c.CORS.FrontendOrigin != "" {
		origins = append(origins, c.CORS.FrontendOrigin)
	}
	return origins
}
