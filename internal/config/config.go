// Package config loads server settings from the process environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the contact inbox server.
type Config struct {
	Port        int    `env:"PORT" envDefault:"5000"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	AllowedOrigins    []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	TrustedProxyCount int      `env:"TRUSTED_PROXY_COUNT" envDefault:"1"`

	ContactRateLimit  int           `env:"CONTACT_RATE_LIMIT" envDefault:"5"`
	ContactRateWindow time.Duration `env:"CONTACT_RATE_WINDOW" envDefault:"15m"`
	RedisURL          string        `env:"REDIS_URL"`

	AMQPURL   string `env:"AMQP_URL"`
	AMQPQueue string `env:"AMQP_QUEUE" envDefault:"contact.submitted"`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	KeepAlive KeepAliveConfig `envPrefix:"KEEPALIVE_"`
}

// KeepAliveConfig controls the liveness pinger.
type KeepAliveConfig struct {
	Enabled          bool          `env:"ENABLED" envDefault:"true"`
	StartDelay       time.Duration `env:"START_DELAY" envDefault:"5s"`
	ExternalURL      string        `env:"EXTERNAL_URL"`
	ExternalInterval time.Duration `env:"EXTERNAL_INTERVAL" envDefault:"30s"`
	ExternalTimeout  time.Duration `env:"EXTERNAL_TIMEOUT" envDefault:"10s"`
	SelfInterval     time.Duration `env:"SELF_INTERVAL" envDefault:"60s"`
	SelfTimeout      time.Duration `env:"SELF_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment into a Config and validates it.
// A missing DATABASE_URL is an error.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.ContactRateLimit < 1 {
		errs = append(errs, fmt.Errorf("CONTACT_RATE_LIMIT must be positive: %d", c.ContactRateLimit))
	}
	if c.ContactRateWindow <= 0 {
		errs = append(errs, errors.New("CONTACT_RATE_WINDOW must be positive"))
	}
	if c.TrustedProxyCount < 0 {
		errs = append(errs, errors.New("TRUSTED_PROXY_COUNT must not be negative"))
	}

	ka := c.KeepAlive
	if ka.ExternalURL != "" {
		u, err := url.Parse(ka.ExternalURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, fmt.Errorf("KEEPALIVE_EXTERNAL_URL must be an https URL: %q", ka.ExternalURL))
		}
	}
	for name, d := range map[string]time.Duration{
		"KEEPALIVE_EXTERNAL_INTERVAL": ka.ExternalInterval,
		"KEEPALIVE_EXTERNAL_TIMEOUT":  ka.ExternalTimeout,
		"KEEPALIVE_SELF_INTERVAL":     ka.SelfInterval,
		"KEEPALIVE_SELF_TIMEOUT":      ka.SelfTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if ka.StartDelay < 0 {
		errs = append(errs, errors.New("KEEPALIVE_START_DELAY must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SelfHealthURL is the loopback health endpoint the self pinger calls.
func (c *Config) SelfHealthURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/api/health", c.Port)
}
