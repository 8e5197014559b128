package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Run modes for receiving Telegram updates.
const (
	RunModeLongpoll = "longpoll"
	RunModeWebhook  = "webhook"
)

// Config holds all application configuration
type Config struct {
	BotToken  string        `envconfig:"BOT_TOKEN" required:"true"`
	RunMode   string        `envconfig:"RUN_MODE" default:"longpoll"`
	WizardTTL time.Duration `envconfig:"WIZARD_TTL" default:"30m"`

	Webhook  WebhookConfig
	Database DatabaseConfig
	Carrier  CarrierConfig
}

// WebhookConfig holds webhook-mode settings
type WebhookConfig struct {
	PublicURL string `envconfig:"WEBHOOK_URL"`
	Listen    string `envconfig:"WEBHOOK_LISTEN" default:":8443"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"ncellbot"`
	User     string `envconfig:"DB_USER" default:"ncellbot"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
}

// CarrierConfig holds carrier API client settings
type CarrierConfig struct {
	BaseURL string        `envconfig:"CARRIER_BASE_URL" default:"https://api.ncell.com.np/selfcare/v1"`
	Timeout time.Duration `envconfig:"CARRIER_TIMEOUT" default:"15s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	cfg.RunMode = strings.ToLower(strings.TrimSpace(cfg.RunMode))
	switch cfg.RunMode {
	case RunModeLongpoll:
	case RunModeWebhook:
		if cfg.Webhook.PublicURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when RUN_MODE is webhook")
		}
	default:
		return nil, fmt.Errorf("invalid RUN_MODE %q: allowed values are longpoll, webhook", cfg.RunMode)
	}

	if cfg.WizardTTL <= 0 {
		return nil, fmt.Errorf("WIZARD_TTL must be positive")
	}

	return &cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
