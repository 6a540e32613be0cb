package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactdto "github.com/osa911/portfolio/internal/api/dto/v1/contact"
	"github.com/osa911/portfolio/internal/client"
	"github.com/osa911/portfolio/internal/config"
	"github.com/osa911/portfolio/internal/contact"
	"github.com/osa911/portfolio/internal/form"
	"github.com/osa911/portfolio/internal/logging"
	mailer "github.com/osa911/portfolio/internal/mail"
	"github.com/osa911/portfolio/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []*mailer.Message
	err  error
}

func (f *fakeTransport) Send(_ context.Context, msg *mailer.Message) (*mailer.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	return &mailer.Ack{Provider: "fake", MessageID: "fake-1"}, nil
}

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) messages() []*mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*mailer.Message(nil), f.sent...)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:       "test",
		Port:              "0",
		MaxBodyBytes:      16384,
		ContactRateLimit:  5,
		ContactRateWindow: 10 * time.Minute,
		Mail: config.MailConfig{
			Provider: mailer.ProviderLog,
			Username: "owner@example.com",
			To:       "owner@example.com",
			Timeout:  5 * time.Second,
		},
	}
}

func startTestServer(t *testing.T, transport *fakeTransport, opts ...Option) *httptest.Server {
	t.Helper()
	logger := logging.NewLoggerWithWriter(logging.LevelError, io.Discard)
	opts = append([]Option{WithTransportFactory(func() (mailer.Transport, error) {
		return transport, nil
	})}, opts...)

	srv, err := NewServer(testConfig(), logger, opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func fill(c *form.Controller) {
	c.UpdateField(contact.FieldName, "Alice")
	c.UpdateField(contact.FieldEmail, "alice@example.com")
	c.UpdateField(contact.FieldSubject, "Project inquiry")
	c.UpdateField(contact.FieldMessage, "I would like a new website <b>soon</b>.")
}

func TestContactFlow_Success(t *testing.T) {
	transport := &fakeTransport{}
	ts := startTestServer(t, transport)

	controller := form.NewController(client.New(ts.URL + "/api/contact"))
	fill(controller)

	outcome := controller.Submit(context.Background())

	require.Equal(t, form.OutcomeSucceeded, outcome)
	state := controller.State()
	assert.Equal(t, contact.FormState{}, state.Form)
	assert.Contains(t, state.Status, "sent successfully")

	sent := transport.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "New message from Alice", sent[0].Subject)
	assert.Equal(t, []string{"owner@example.com"}, sent[0].To)
	assert.Equal(t, "<alice@example.com>", sent[0].ReplyTo)
	assert.Contains(t, sent[0].HTML, "&lt;b&gt;soon&lt;/b&gt;")
}

func TestContactFlow_TransportFailure(t *testing.T) {
	transport := &fakeTransport{
		err: &mailer.TransportError{Provider: "smtp", Op: "auth", Err: errors.New("535 5.7.8 Username and Password not accepted")},
	}
	ts := startTestServer(t, transport)

	controller := form.NewController(client.New(ts.URL + "/api/contact"))
	fill(controller)

	outcome := controller.Submit(context.Background())

	require.Equal(t, form.OutcomeFailed, outcome)
	state := controller.State()
	assert.Contains(t, state.Status, "Failed")
	assert.Contains(t, state.Status, "Username and Password not accepted")
	assert.Equal(t, "Alice", state.Form.Name)
	assert.Equal(t, "alice@example.com", state.Form.Email)
}

func TestContactEndpoint_RevalidatesInput(t *testing.T) {
	transport := &fakeTransport{}
	ts := startTestServer(t, transport)

	body := `{"name":"A","email":"not-an-email","subject":"Hi","message":"<script>x</script>"}`
	resp, err := http.Post(ts.URL+"/api/contact", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"code":"VALIDATION_ERROR"`)
	assert.Contains(t, string(raw), `"name":"Name must be at least 2 characters"`)
	assert.Contains(t, string(raw), `"email":"Please enter a valid email address"`)
	assert.Empty(t, transport.messages())
}

func TestContactEndpoint_MalformedJSON(t *testing.T) {
	ts := startTestServer(t, &fakeTransport{})

	resp, err := http.Post(ts.URL+"/api/contact", "application/json", strings.NewReader(`{"name":`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContactEndpoint_BodyTooLarge(t *testing.T) {
	ts := startTestServer(t, &fakeTransport{})

	body := `{"message":"` + strings.Repeat("x", 20000) + `"}`
	resp, err := http.Post(ts.URL+"/api/contact", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestContactEndpoint_RateLimited(t *testing.T) {
	transport := &fakeTransport{}
	ts := startTestServer(t, transport, WithLimiter(service.NewMemoryLimiter(1, time.Hour)))

	c := client.New(ts.URL + "/api/contact")
	req := contactRequest()

	_, err := c.Submit(context.Background(), req)
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), req)
	var relayErr *client.RelayError
	require.True(t, errors.As(err, &relayErr))
	assert.Equal(t, http.StatusTooManyRequests, relayErr.StatusCode)
	assert.Equal(t, contact.StatusRateLimited, relayErr.Message)
	assert.Equal(t, time.Hour, relayErr.RetryAfter)
	assert.Len(t, transport.messages(), 1)
}

func TestContactEndpoint_RateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	transport := &fakeTransport{}
	ts := startTestServer(t, transport)

	body, err := json.Marshal(contactRequest())
	require.NoError(t, err)

	codes := make([]int, 0, 12)
	for i := 0; i < 12; i++ {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/contact", bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	for i, code := range codes {
		if i < 5 {
			assert.Equal(t, http.StatusOK, code, "request %d", i)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, code, "request %d", i)
		}
	}
	assert.Len(t, transport.messages(), 5)
}

func TestNewServer_RejectsInvalidTrustedProxies(t *testing.T) {
	cfg := testConfig()
	cfg.TrustedProxies = []string{"not-an-ip"}

	_, err := NewServer(cfg, logging.NewLoggerWithWriter(logging.LevelError, io.Discard),
		WithLimiter(service.NewMemoryLimiter(1, time.Hour)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}

func TestHealthAndMetrics(t *testing.T) {
	ts := startTestServer(t, &fakeTransport{})

	_, err := client.New(ts.URL+"/api/contact").Submit(context.Background(), contactRequest())
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"status":"ok"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), `portfolio_contact_relay_total{outcome="sent"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	ts := startTestServer(t, &fakeTransport{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/contact", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://portfolio.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func contactRequest() contactdto.RelayRequest {
	return contactdto.RelayRequest{
		Name:    "Alice",
		Email:   "alice@example.com",
		Subject: "Project inquiry",
		Message: "I would like a new website.",
	}
}
