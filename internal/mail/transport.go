// Package mail delivers contact messages through a pluggable outbound
// provider. Every transport performs exactly one delivery attempt per Send;
// retries are the caller's decision, and the relay never makes one.
package mail

import (
	"context"
	"errors"
	"fmt"
)

// Provider names accepted by NewTransport.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
	ProviderLog    = "log"
)

var (
	// ErrNotConfigured is returned when the account identity or credential
	// needed by a provider is missing.
	ErrNotConfigured = errors.New("mail transport not configured")
	// ErrUnknownProvider is returned by NewTransport for an unsupported name.
	ErrUnknownProvider = errors.New("unknown mail provider")
)

// Message is a provider-agnostic email.
type Message struct {
	From    string // visitor address shown in the From header
	ReplyTo string
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Ack confirms that a provider accepted a message.
type Ack struct {
	Provider  string
	MessageID string
}

// Transport sends messages through one outbound provider.
type Transport interface {
	Send(ctx context.Context, msg *Message) (*Ack, error)
	Close() error
}

// TransportError reports a failed delivery step. Its message keeps the
// provider's own wording so it can be shown to the visitor as-is.
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func wrapErr(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Provider: provider, Op: op, Err: err}
}

func validateMessage(msg *Message) error {
	if msg == nil {
		return errors.New("nil message")
	}
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}
	return nil
}
