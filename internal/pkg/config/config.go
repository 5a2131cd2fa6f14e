package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/V4T54L/send-event/internal/domain"
)

const (
	TransportHTTP  = "http"
	TransportRedis = "redis"
)

// Config holds all application configuration.
type Config struct {
	DSNValue          string        `env:"SENTRY_DSN,required,notEmpty"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	Transport         string        `env:"SEND_EVENT_TRANSPORT" envDefault:"http"`
	HTTPTimeout       time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	HTTPMaxRetries    int           `env:"HTTP_MAX_RETRIES" envDefault:"2"`
	SendRateLimit     float64       `env:"SEND_RATE_LIMIT" envDefault:"10"` // events per second
	SendRateBurst     int           `env:"SEND_RATE_BURST" envDefault:"1"`
	RedisURL          string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisStream       string        `env:"REDIS_STREAM" envDefault:"sentry_events"`
	EnvironRedactKeys []string      `env:"ENVIRON_REDACT_KEYS" envSeparator:","`
	PushgatewayURL    string        `env:"METRICS_PUSHGATEWAY_URL"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	switch cfg.Transport {
	case TransportHTTP, TransportRedis:
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", domain.ErrConfiguration, cfg.Transport)
	}

	keys := cfg.EnvironRedactKeys[:0]
	for _, k := range cfg.EnvironRedactKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	cfg.EnvironRedactKeys = keys

	return cfg, nil
}

// DSN parses the configured destination credential.
func (c *Config) DSN() (domain.DSN, error) {
	return domain.ParseDSN(c.DSNValue)
}
