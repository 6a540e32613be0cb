package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "api.log"))
	t.Setenv("EMAIL_USER", "owner@example.com")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "smtp", cfg.Mail.Provider)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.SMTPHost)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, "starttls", cfg.Mail.SMTPSecurity)
	assert.Equal(t, 15*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "owner@example.com", cfg.Mail.To)
	assert.Equal(t, 5, cfg.ContactRateLimit)
	assert.Equal(t, 10*time.Minute, cfg.ContactRateWindow)
	assert.False(t, cfg.IsProduction())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "api.log"))
	t.Setenv("ENV", "production")
	t.Setenv("MAIL_PROVIDER", " Resend ")
	t.Setenv("MAIL_TO", "inbox@example.com")
	t.Setenv("EMAIL_USER", "sender@example.com")
	t.Setenv("MAIL_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,172.16.0.0/12")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "resend", cfg.Mail.Provider)
	assert.Equal(t, "inbox@example.com", cfg.Mail.To)
	assert.Equal(t, 3*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseRejectsBadRateLimit(t *testing.T) {
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "api.log"))
	t.Setenv("CONTACT_RATE_LIMIT", "0")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParseRejectsMalformedDuration(t *testing.T) {
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "api.log"))
	t.Setenv("MAIL_TIMEOUT", "soon")

	_, err := Parse()
	assert.Error(t, err)
}
