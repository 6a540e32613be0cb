package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// emailSender is the part of the Resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendConfig holds the Resend API credential and verified sender.
type ResendConfig struct {
	APIKey string
	From   string
}

// ResendTransport sends messages through the Resend HTTP API. Resend only
// accepts verified senders, so the visitor address travels as Reply-To.
type ResendTransport struct {
	emails emailSender
	from   string
}

// NewResendTransport creates a Resend-backed transport.
func NewResendTransport(cfg ResendConfig) (*ResendTransport, error) {
	if cfg.APIKey == "" || cfg.From == "" {
		return nil, fmt.Errorf("%w: resend api key and sender are required", ErrNotConfigured)
	}
	client := resend.NewClient(cfg.APIKey)
	return &ResendTransport{emails: client.Emails, from: cfg.From}, nil
}

func (t *ResendTransport) Send(ctx context.Context, msg *Message) (*Ack, error) {
	if err := validateMessage(msg); err != nil {
		return nil, wrapErr(ProviderResend, "compose", err)
	}

	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = msg.From
	}

	params := &resend.SendEmailRequest{
		From:    t.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
		ReplyTo: replyTo,
	}

	resp, err := t.emails.SendWithContext(ctx, params)
	if err != nil {
		return nil, wrapErr(ProviderResend, "send", err)
	}

	ack := &Ack{Provider: ProviderResend}
	if resp != nil {
		ack.MessageID = resp.Id
	}
	return ack, nil
}

func (t *ResendTransport) Close() error {
	return nil
}
