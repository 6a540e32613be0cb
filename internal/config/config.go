package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENV" envDefault:"development"`
	Port           string   `env:"API_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"16384"`
	// Proxies whose X-Forwarded-For / X-Real-IP headers are believed.
	// Empty means none: the socket address is the client IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Logging Configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"`

	// Mail Configuration
	Mail MailConfig

	// Contact endpoint abuse limit, per client IP
	ContactRateLimit  int           `env:"CONTACT_RATE_LIMIT" envDefault:"5"`
	ContactRateWindow time.Duration `env:"CONTACT_RATE_WINDOW" envDefault:"10m"`
	RedisURL          string        `env:"REDIS_URL"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"portfolio-api"`
}

// MailConfig describes the outbound mail account. It is read once at start
// and treated as read-only afterwards.
type MailConfig struct {
	Provider string        `env:"MAIL_PROVIDER" envDefault:"smtp"`
	Username string        `env:"EMAIL_USER"`
	Password string        `env:"EMAIL_PASS"`
	To       string        `env:"MAIL_TO"`
	From     string        `env:"MAIL_FROM"`
	Timeout  time.Duration `env:"MAIL_TIMEOUT" envDefault:"15s"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPSecurity string `env:"SMTP_SECURITY" envDefault:"starttls"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	// Try multiple locations for .env file
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overrides variables already set in the process
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Mail.Provider = strings.ToLower(strings.TrimSpace(cfg.Mail.Provider))
	cfg.Mail.SMTPSecurity = strings.ToLower(strings.TrimSpace(cfg.Mail.SMTPSecurity))

	// The site owner receives messages on the sending account unless told otherwise
	if cfg.Mail.To == "" {
		cfg.Mail.To = cfg.Mail.Username
	}

	// Set default log file if not set
	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if cfg.ContactRateLimit <= 0 {
		return nil, fmt.Errorf("CONTACT_RATE_LIMIT must be positive, got %d", cfg.ContactRateLimit)
	}
	if cfg.ContactRateWindow <= 0 {
		return nil, fmt.Errorf("CONTACT_RATE_WINDOW must be positive, got %s", cfg.ContactRateWindow)
	}

	return cfg, nil
}
