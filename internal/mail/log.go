package mail

import (
	"context"

	"github.com/google/uuid"

	"github.com/osa911/portfolio/internal/logging"
)

// LogTransport writes messages to the application log instead of sending
// them. Meant for local development only.
type LogTransport struct {
	logger *logging.Logger
}

func NewLogTransport(logger *logging.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Send(_ context.Context, msg *Message) (*Ack, error) {
	if err := validateMessage(msg); err != nil {
		return nil, wrapErr(ProviderLog, "compose", err)
	}

	id := uuid.NewString()
	t.logger.Info("mail %s | from=%s to=%v subject=%q\n%s", id, msg.From, msg.To, msg.Subject, msg.Text)
	return &Ack{Provider: ProviderLog, MessageID: id}, nil
}

func (t *LogTransport) Close() error {
	return nil
}
