// Package config loads application configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are joined
// with a double underscore, e.g. STATUSDASH_SERVER__PORT=8080.
const EnvPrefix = "STATUSDASH_"

// Config is the statusdash server configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Upstream      UpstreamConfig      `koanf:"upstream"`
	Database      DatabaseConfig      `koanf:"database"`
	Log           LogConfig           `koanf:"log"`
	CORS          CORSConfig          `koanf:"cors"`
	Stream        StreamConfig        `koanf:"stream"`
	History       HistoryConfig       `koanf:"history"`
	Notifications NotificationsConfig `koanf:"notifications"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port" validate:"required,numeric"`
	MetricsPort       string        `koanf:"metrics_port" validate:"required,numeric"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// UpstreamConfig points at the status backend.
type UpstreamConfig struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	RateLimit float64       `koanf:"rate_limit" validate:"gte=0"`
	Burst     int           `koanf:"burst" validate:"gte=0"`
}

// DatabaseConfig holds PostgreSQL settings. An empty URL keeps status
// history in memory.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectAttempts int           `koanf:"connect_attempts" validate:"gte=1"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout" validate:"gt=0"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// CORSConfig holds allowed browser origins.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// StreamConfig holds websocket settings.
type StreamConfig struct {
	PushInterval time.Duration `koanf:"push_interval" validate:"gt=0"`
}

// HistoryConfig controls the service status recorder.
type HistoryConfig struct {
	Enabled      bool          `koanf:"enabled"`
	PollInterval time.Duration `koanf:"poll_interval" validate:"gt=0"`
}

// NotificationsConfig controls status change notifications.
type NotificationsConfig struct {
	Enabled    bool             `koanf:"enabled"`
	BaseURL    string           `koanf:"base_url" validate:"omitempty,url"`
	Mattermost MattermostConfig `koanf:"mattermost"`
	Retry      RetryConfig      `koanf:"retry"`
}

// MattermostConfig holds incoming webhook settings.
type MattermostConfig struct {
	Webhooks []string      `koanf:"webhooks" validate:"dive,url"`
	Username string        `koanf:"username"`
	IconURL  string        `koanf:"icon_url" validate:"omitempty,url"`
	Channel  string        `koanf:"channel"`
	Timeout  time.Duration `koanf:"timeout"`
}

// RetryConfig holds delivery retry settings.
type RetryConfig struct {
	MaxAttempts       int           `koanf:"max_attempts" validate:"gte=1"`
	InitialBackoff    time.Duration `koanf:"initial_backoff" validate:"gt=0"`
	MaxBackoff        time.Duration `koanf:"max_backoff" validate:"gtefield=InitialBackoff"`
	BackoffMultiplier float64       `koanf:"backoff_multiplier" validate:"gte=1"`
}

// Default returns the configuration used for keys that are not set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      70 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		Upstream: UpstreamConfig{
			Timeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			ConnectAttempts: 5,
			ConnectTimeout:  30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Stream: StreamConfig{
			PushInterval: 30 * time.Second,
		},
		History: HistoryConfig{
			Enabled:      true,
			PollInterval: 30 * time.Second,
		},
		Notifications: NotificationsConfig{
			Retry: RetryConfig{
				MaxAttempts:       3,
				InitialBackoff:    time.Second,
				MaxBackoff:        30 * time.Second,
				BackoffMultiplier: 2.0,
			},
		},
	}
}

// Load reads the YAML file at path, if any, then applies environment
// overrides on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Notifications.Enabled {
		if !c.History.Enabled {
			return errors.New("invalid config: notifications require history to be enabled")
		}
		if len(c.Notifications.Mattermost.Webhooks) == 0 {
			return errors.New("invalid config: notifications enabled but no mattermost webhooks configured")
		}
	}
	return nil
}
