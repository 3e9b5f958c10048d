package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// DatabaseConfig holds database connection settings. It lives here rather
// than in core/database so this package stays a leaf: everything else,
// including the logger the database layer reports through, depends on it.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// DSN renders the key=value connection string used by database/sql drivers.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// URL renders the postgres:// connection URL used by the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// RatesConfig describes the exchange-rate provider endpoint and the pair to report.
type RatesConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"RATES_BASE_URL"`
	APIKey  string `yaml:"api_key" envconfig:"RATES_API_KEY"`
	// Base is the currency all provider rates are quoted against.
	Base string `yaml:"base" envconfig:"RATES_BASE"`
	// Target is the currency the user-facing quote is expressed in.
	Target string `yaml:"target" envconfig:"RATES_TARGET"`
	// Cross is the second currency quoted against Target via the base.
	Cross          string `yaml:"cross" envconfig:"RATES_CROSS"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"RATES_TIMEOUT_SECONDS"`
}

// SessionConfig controls dialogue session lifecycle.
type SessionConfig struct {
	// TTL bounds how long an abandoned dialogue survives; 0 keeps it forever.
	TTL time.Duration `yaml:"ttl" envconfig:"SESSION_TTL"`
}

// MetricsConfig controls the optional Prometheus listener.
type MetricsConfig struct {
	Listen string `yaml:"listen" envconfig:"METRICS_LISTEN"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Dir     string `yaml:"dir"`
	BotFile string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// RateLimitConfig holds settings for per-user rate limiting.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
}

// Config aggregates the whole application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Database  DatabaseConfig  `yaml:"database"`
	Rates     RatesConfig     `yaml:"rates"`
	Session   SessionConfig   `yaml:"session"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required: set telegram.token or BOT_TOKEN")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Rates.BaseURL == "" {
		cfg.Rates.BaseURL = "https://v6.exchangerate-api.com/v6"
	}
	cfg.Rates.BaseURL = strings.TrimRight(cfg.Rates.BaseURL, "/")
	if cfg.Rates.Base == "" {
		cfg.Rates.Base = "USD"
	}
	if cfg.Rates.Target == "" {
		cfg.Rates.Target = "RUB"
	}
	if cfg.Rates.Cross == "" {
		cfg.Rates.Cross = "EUR"
	}
	if cfg.Rates.TimeoutSeconds < 0 {
		return fmt.Errorf("rates.timeout_seconds must be >= 0")
	}
	if cfg.Rates.TimeoutSeconds == 0 {
		cfg.Rates.TimeoutSeconds = 10
	}

	if cfg.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must be >= 0")
	}
	if cfg.RateLimit.IntervalMS < 0 {
		return fmt.Errorf("rate_limit.interval_ms must be >= 0")
	}

	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = 4
	}

	return nil
}
