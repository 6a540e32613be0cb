package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTP connection security modes.
const (
	SecurityStartTLS = "starttls"
	SecurityTLS      = "tls"
	SecurityNone     = "none"
)

// SMTPConfig describes an authenticated submission account.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Security string

	// TLSConfig overrides the default verification settings.
	TLSConfig *tls.Config
}

// SMTPTransport submits messages to an SMTP server using AUTH PLAIN. Each
// Send opens and closes its own connection.
type SMTPTransport struct {
	cfg    SMTPConfig
	dialer net.Dialer
}

// NewSMTPTransport checks the account settings and returns a transport.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: smtp username and password are required", ErrNotConfigured)
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: smtp host is required", ErrNotConfigured)
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	switch cfg.Security {
	case "":
		cfg.Security = SecurityStartTLS
	case SecurityStartTLS, SecurityTLS, SecurityNone:
	default:
		return nil, fmt.Errorf("%w: unsupported smtp security %q", ErrNotConfigured, cfg.Security)
	}

	return &SMTPTransport{
		cfg:    cfg,
		dialer: net.Dialer{Timeout: 30 * time.Second},
	}, nil
}

func (t *SMTPTransport) tlsConfig() *tls.Config {
	if t.cfg.TLSConfig != nil {
		return t.cfg.TLSConfig.Clone()
	}
	return &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}
}

func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))

	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// The SMTP conversation has no context support of its own, so bound it
	// by the caller's deadline.
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
	}

	switch t.cfg.Security {
	case SecurityTLS:
		return smtp.NewClient(tls.Client(conn, t.tlsConfig())), nil
	case SecurityStartTLS:
		c, err := smtp.NewClientStartTLS(conn, t.tlsConfig())
		if err != nil {
			conn.Close()
			return nil, err
		}
		return c, nil
	default:
		return smtp.NewClient(conn), nil
	}
}

// Send delivers msg in a single SMTP session. The From header carries the
// visitor address while the envelope sender is the authenticated account.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) (*Ack, error) {
	raw, messageID, err := Compose(msg)
	if err != nil {
		return nil, wrapErr(ProviderSMTP, "compose", err)
	}

	c, err := t.connect(ctx)
	if err != nil {
		return nil, wrapErr(ProviderSMTP, "connect", err)
	}
	defer c.Close()

	if err := c.Auth(sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password)); err != nil {
		return nil, wrapErr(ProviderSMTP, "auth", err)
	}

	if err := c.SendMail(t.cfg.Username, msg.To, bytes.NewReader(raw)); err != nil {
		return nil, wrapErr(ProviderSMTP, "send", err)
	}

	// The message is accepted once DATA completes; a failed QUIT changes nothing.
	_ = c.Quit()

	return &Ack{Provider: ProviderSMTP, MessageID: messageID}, nil
}

// Close is a no-op; connections live only for the duration of Send.
func (t *SMTPTransport) Close() error {
	return nil
}
