package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkMessage struct {
	from string
	to   []string
	data []byte
}

// sinkBackend is a minimal authenticated SMTP server that keeps every
// accepted message in memory.
type sinkBackend struct {
	username string
	password string

	mu       sync.Mutex
	messages []sinkMessage
}

func (b *sinkBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &sinkSession{backend: b}, nil
}

func (b *sinkBackend) received() []sinkMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sinkMessage(nil), b.messages...)
}

type sinkSession struct {
	backend       *sinkBackend
	authenticated bool
	from          string
	to            []string
}

func (s *sinkSession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *sinkSession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != s.backend.username || password != s.backend.password {
			return &smtp.SMTPError{
				Code:         535,
				EnhancedCode: smtp.EnhancedCode{5, 7, 8},
				Message:      "Username and Password not accepted",
			}
		}
		s.authenticated = true
		return nil
	}), nil
}

func (s *sinkSession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authenticated {
		return smtp.ErrAuthRequired
	}
	s.from = from
	return nil
}

func (s *sinkSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.to = append(s.to, to)
	return nil
}

func (s *sinkSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.messages = append(s.backend.messages, sinkMessage{from: s.from, to: s.to, data: data})
	return nil
}

func (s *sinkSession) Reset() {
	s.from = ""
	s.to = nil
}

func (s *sinkSession) Logout() error {
	return nil
}

func startSink(t *testing.T) (*sinkBackend, string, int) {
	t.Helper()

	backend := &sinkBackend{username: "owner@example.com", password: "app-password"}
	server := smtp.NewServer(backend)
	server.Domain = "localhost"
	server.AllowInsecureAuth = true
	server.ReadTimeout = 5 * time.Second
	server.WriteTimeout = 5 * time.Second

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go server.Serve(l)
	t.Cleanup(func() { server.Close() })

	host, portStr, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return backend, host, port
}

func testMessage() *Message {
	return &Message{
		From:    "Alice <alice@example.com>",
		ReplyTo: "alice@example.com",
		To:      []string{"owner@example.com"},
		Subject: "New message from Alice",
		Text:    "Name: Alice\nMessage: Hello there, café time?",
		HTML:    "<p><strong>Name:</strong> Alice</p>",
	}
}

func TestSMTPTransport_Send(t *testing.T) {
	backend, host, port := startSink(t)

	transport, err := NewSMTPTransport(SMTPConfig{
		Host:     host,
		Port:     port,
		Username: "owner@example.com",
		Password: "app-password",
		Security: SecurityNone,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ack, err := transport.Send(ctx, testMessage())
	require.NoError(t, err)
	assert.Equal(t, ProviderSMTP, ack.Provider)
	assert.NotEmpty(t, ack.MessageID)

	received := backend.received()
	require.Len(t, received, 1)
	assert.Equal(t, "owner@example.com", received[0].from)
	assert.Equal(t, []string{"owner@example.com"}, received[0].to)

	r, err := mail.CreateReader(bytes.NewReader(received[0].data))
	require.NoError(t, err)

	subject, err := r.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "New message from Alice", subject)

	from, err := r.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "alice@example.com", from[0].Address)

	replyTo, err := r.Header.AddressList("Reply-To")
	require.NoError(t, err)
	require.Len(t, replyTo, 1)
	assert.Equal(t, "alice@example.com", replyTo[0].Address)

	var text, html string
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(part.Body)
		require.NoError(t, err)
		if h, ok := part.Header.(*mail.InlineHeader); ok {
			mediaType, _, _ := h.ContentType()
			switch mediaType {
			case "text/plain":
				text = string(body)
			case "text/html":
				html = string(body)
			}
		}
	}
	assert.Contains(t, text, "café time?")
	assert.Contains(t, html, "<strong>Name:</strong> Alice")
}

func TestSMTPTransport_AuthFailure(t *testing.T) {
	backend, host, port := startSink(t)

	transport, err := NewSMTPTransport(SMTPConfig{
		Host:     host,
		Port:     port,
		Username: "owner@example.com",
		Password: "wrong",
		Security: SecurityNone,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = transport.Send(ctx, testMessage())
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "auth", terr.Op)
	assert.Contains(t, err.Error(), "Username and Password not accepted")
	assert.Empty(t, backend.received())
}

func TestSMTPTransport_ConnectFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().(*net.TCPAddr)
	require.NoError(t, l.Close())

	transport, err := NewSMTPTransport(SMTPConfig{
		Host:     "127.0.0.1",
		Port:     addr.Port,
		Username: "u",
		Password: "p",
		Security: SecurityNone,
	})
	require.NoError(t, err)

	_, err = transport.Send(context.Background(), testMessage())
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "connect", terr.Op)
}

func TestNewSMTPTransport_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  SMTPConfig
	}{
		{"no username", SMTPConfig{Host: "smtp.example.com", Password: "p"}},
		{"no password", SMTPConfig{Host: "smtp.example.com", Username: "u"}},
		{"no host", SMTPConfig{Username: "u", Password: "p"}},
		{"bad security", SMTPConfig{Host: "smtp.example.com", Username: "u", Password: "p", Security: "ssl3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSMTPTransport(tt.cfg)
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestNewSMTPTransport_Defaults(t *testing.T) {
	transport, err := NewSMTPTransport(SMTPConfig{Host: "smtp.example.com", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, 587, transport.cfg.Port)
	assert.Equal(t, SecurityStartTLS, transport.cfg.Security)
	assert.Equal(t, "smtp.example.com", transport.tlsConfig().ServerName)
}

func TestCompose_RejectsBadAddresses(t *testing.T) {
	msg := testMessage()
	msg.To = []string{"not an address"}
	_, _, err := Compose(msg)
	assert.Error(t, err)

	msg = testMessage()
	msg.To = nil
	_, _, err = Compose(msg)
	assert.Error(t, err)
}

func TestCompose_TextOnly(t *testing.T) {
	msg := testMessage()
	msg.HTML = ""

	raw, id, err := Compose(msg)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	header := string(raw[:bytes.Index(raw, []byte("\r\n\r\n"))])
	assert.True(t, strings.Contains(header, "Subject: New message from Alice"))
	assert.NotContains(t, string(raw), "text/html")
}
