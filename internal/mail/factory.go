package mail

import (
	"fmt"

	"github.com/osa911/portfolio/internal/config"
	"github.com/osa911/portfolio/internal/logging"
)

// NewTransport builds the transport selected by cfg.Provider. Missing
// credentials surface here as ErrNotConfigured, on every call, rather than
// at process start.
func NewTransport(cfg config.MailConfig, logger *logging.Logger) (Transport, error) {
	switch cfg.Provider {
	case ProviderSMTP, "":
		t, err := NewSMTPTransport(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.Username,
			Password: cfg.Password,
			Security: cfg.SMTPSecurity,
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	case ProviderResend:
		from := cfg.From
		if from == "" {
			from = cfg.Username
		}
		t, err := NewResendTransport(ResendConfig{APIKey: cfg.ResendAPIKey, From: from})
		if err != nil {
			return nil, err
		}
		return t, nil
	case ProviderLog:
		return NewLogTransport(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
