package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osa911/portfolio/internal/contact"
	"github.com/osa911/portfolio/internal/logging"
	mailer "github.com/osa911/portfolio/internal/mail"
)

// TransportFactory builds a fresh transport for one dispatch.
type TransportFactory func() (mailer.Transport, error)

// RelayService forwards contact messages to the site owner. It keeps no
// per-request state, so one instance serves concurrent requests.
type RelayService struct {
	newTransport TransportFactory
	owner        string
	timeout      time.Duration
	metrics      *RelayMetrics
	logger       *logging.Logger
	tracer       trace.Tracer
}

// NewRelayService creates a relay. timeout bounds each dispatch; zero
// leaves it to the caller's context.
func NewRelayService(newTransport TransportFactory, owner string, timeout time.Duration, metrics *RelayMetrics, logger *logging.Logger) *RelayService {
	return &RelayService{
		newTransport: newTransport,
		owner:        owner,
		timeout:      timeout,
		metrics:      metrics,
		logger:       logger,
		tracer:       otel.Tracer("github.com/osa911/portfolio/internal/service"),
	}
}

// Relay makes exactly one delivery attempt for form. There is no retry and
// no idempotency key: a client retrying after a timeout may cause a
// duplicate email.
func (s *RelayService) Relay(ctx context.Context, form contact.FormState, info SubmissionInfo) (*mailer.Ack, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "contact.relay", trace.WithAttributes(
		attribute.String("request.id", info.RequestID),
	))
	defer span.End()

	fail := func(outcome string, err error) (*mailer.Ack, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.observe(outcome, time.Since(start))
		s.logger.Error("Contact relay failed [%s] from %s: %v", info.RequestID, info.IPAddress, err)
		return nil, err
	}

	msg, err := BuildMessage(form, s.owner, info)
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			return fail(OutcomeNotConfigured, err)
		}
		return fail(OutcomeFailed, err)
	}

	transport, err := s.newTransport()
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			return fail(OutcomeNotConfigured, err)
		}
		return fail(OutcomeFailed, err)
	}
	defer transport.Close()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ack, err := transport.Send(ctx, msg)
	if err != nil {
		return fail(OutcomeFailed, err)
	}

	span.SetAttributes(
		attribute.String("mail.provider", ack.Provider),
		attribute.String("mail.message_id", ack.MessageID),
	)
	s.metrics.observe(OutcomeSent, time.Since(start))
	s.logger.Info("Contact message relayed [%s] via %s (%s)", info.RequestID, ack.Provider, ack.MessageID)
	return ack, nil
}
