// Package config loads the xlist server configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Logging   LoggingConfig   `koanf:"logging"`
	Clicks    ClicksConfig    `koanf:"clicks"`
	Cache     CacheConfig     `koanf:"cache"`
	Analytics AnalyticsConfig `koanf:"analytics"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"`
	RateWindow      time.Duration `koanf:"rate_window" validate:"gt=0"`
}

// DatabaseConfig selects the store.
type DatabaseConfig struct {
	Driver       string        `koanf:"driver" validate:"oneof=sqlite postgres"`
	DSN          string        `koanf:"dsn" validate:"required"`
	StoreTimeout time.Duration `koanf:"store_timeout" validate:"gt=0"`
	AutoMigrate  bool          `koanf:"auto_migrate"`
	MaxOpenConns int           `koanf:"max_open_conns" validate:"gte=0"`
}

// AuthConfig verifies bearer tokens.
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=16"`
	Issuer    string `koanf:"issuer"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// ClicksConfig controls click tracking.
type ClicksConfig struct {
	Enabled bool          `koanf:"enabled"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// CacheConfig toggles the profile read cache.
type CacheConfig struct {
	Enabled bool `koanf:"enabled"`
}

// AnalyticsConfig sets the timezone used for day and month boundaries.
type AnalyticsConfig struct {
	Timezone string `koanf:"timezone" validate:"required"`
}

// Location resolves the analytics timezone.
func (c AnalyticsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(strings.TrimSpace(c.Timezone))
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := c.Analytics.Location(); err != nil {
		return fmt.Errorf("analytics.timezone: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{},
			RateLimit:       120,
			RateWindow:      time.Minute,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			DSN:          "file:xlist.db?cache=shared&_fk=1",
			StoreTimeout: 5 * time.Second,
			AutoMigrate:  true,
			MaxOpenConns: 0,
		},
		Auth: AuthConfig{
			JWTSecret: "",
			Issuer:    "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Clicks: ClicksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: false,
		},
		Analytics: AnalyticsConfig{
			Timezone: "UTC",
		},
	}
}
