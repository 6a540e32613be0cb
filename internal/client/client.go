// Package client submits contact requests to the relay endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/osa911/portfolio/internal/api/dto/common"
	contactdto "github.com/osa911/portfolio/internal/api/dto/v1/contact"
	"github.com/osa911/portfolio/internal/version"
)

// DefaultTimeout bounds a submission when no other timeout is configured.
const DefaultTimeout = 15 * time.Second

var (
	// ErrNetwork means the request never produced a readable answer:
	// connection failure, or a body that is not a relay result.
	ErrNetwork = errors.New("network error")
	// ErrTimeout means no answer arrived before the deadline.
	ErrTimeout = errors.New("request timed out")
)

// RelayError is a failure reported by the relay endpoint itself.
type RelayError struct {
	StatusCode int
	Message    string
	Code       common.ErrorCode
	Errors     map[string]string
	RetryAfter time.Duration
}

func (e *RelayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relay failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Client posts RelayRequests to a single endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is used
// as-is unless WithTimeout is also given; hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request, whatever order the options come in.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "portfolio-contact/" + version.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Submit sends one request and makes no retry. A nil error means the
// endpoint reported success.
func (c *Client) Submit(ctx context.Context, req contactdto.RelayRequest) (*contactdto.RelayResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	var result contactdto.RelayResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: unreadable response (status %d): %v", ErrNetwork, resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !result.Success {
		return &result, &RelayError{
			StatusCode: resp.StatusCode,
			Message:    result.Error,
			Code:       result.Code,
			Errors:     result.Errors,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	return &result, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}
	if isTimeout(ctx, err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
