// Package form holds the state of a contact form and drives its
// submission: local validation, a cooldown between attempts, one request
// in flight at a time, and a status line describing the last outcome.
package form

import (
	"context"
	"errors"
	"sync"
	"time"

	contactdto "github.com/osa911/portfolio/internal/api/dto/v1/contact"
	"github.com/osa911/portfolio/internal/client"
	"github.com/osa911/portfolio/internal/contact"
)

// Submitter delivers a request to the relay endpoint. *client.Client
// satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req contactdto.RelayRequest) (*contactdto.RelayResult, error)
}

type Option func(*Controller)

// WithClock overrides the time source used for the cooldown.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller owns the form state. All mutation goes through its methods;
// subscribers receive a copy after every change.
type Controller struct {
	submitter Submitter
	now       func() time.Time

	mu          sync.Mutex
	state       State
	lastAttempt time.Time
	seq         uint64

	subMu     sync.Mutex
	nextSubID int
	subs      []subscription
}

type subscription struct {
	id int
	fn func(State)
}

func NewController(submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter: submitter,
		now:       time.Now,
		state: State{
			Errors: contact.ValidationResult{},
			Phase:  PhaseIdle,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to be called with a snapshot after each change.
// The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subs = append(c.subs, subscription{id: id, fn: fn})

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) notify(s State) {
	c.subMu.Lock()
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(s.clone())
	}
}

// UpdateField sets one field and clears any error shown for it. Unknown
// fields are ignored.
func (c *Controller) UpdateField(field contact.Field, value string) {
	c.mu.Lock()
	changed := c.state.Form.Set(field, value)
	if c.state.Errors.Has(field) {
		delete(c.state.Errors, field)
		changed = true
	}
	snapshot := c.state.clone()
	c.mu.Unlock()

	if changed {
		c.notify(snapshot)
	}
}

// Validate checks the current draft without changing any state.
func (c *Controller) Validate() contact.ValidationResult {
	c.mu.Lock()
	form := c.state.Form
	c.mu.Unlock()
	return contact.Validate(form)
}

// CanSubmit reports whether the cooldown since the last sent attempt has
// elapsed at now.
func (c *Controller) CanSubmit(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return contact.CanSubmit(c.lastAttempt, now)
}

// Reset clears the draft, errors and status. A request still in flight
// keeps running but its outcome is discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.seq++
	c.state = State{
		Errors: contact.ValidationResult{},
		Phase:  PhaseIdle,
	}
	snapshot := c.state.clone()
	c.mu.Unlock()

	c.notify(snapshot)
}

// Submit runs one submission attempt. It blocks until the request
// completes; while it does, further calls return OutcomeBusy without
// touching state or the network.
func (c *Controller) Submit(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return OutcomeBusy
	}

	now := c.now()
	if !contact.CanSubmit(c.lastAttempt, now) {
		c.state.Status = contact.StatusCooldown
		c.state.Phase = PhaseBlocked
		c.state.FocusStatus = false
		snapshot := c.state.clone()
		c.mu.Unlock()
		c.notify(snapshot)
		return OutcomeBlocked
	}

	if errs := contact.Validate(c.state.Form); !errs.Valid() {
		c.state.Errors = errs
		c.state.Status = contact.StatusInvalid
		c.state.Phase = PhaseInvalid
		c.state.FocusStatus = false
		snapshot := c.state.clone()
		c.mu.Unlock()
		c.notify(snapshot)
		return OutcomeInvalid
	}

	c.lastAttempt = now
	c.seq++
	seq := c.seq
	c.state.Errors = contact.ValidationResult{}
	c.state.Loading = true
	c.state.Status = contact.StatusSending
	c.state.Phase = PhaseSending
	c.state.FocusStatus = false
	req := contactdto.NewRelayRequest(c.state.Form)
	snapshot := c.state.clone()
	c.mu.Unlock()
	c.notify(snapshot)

	result, err := c.submitter.Submit(ctx, req)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return OutcomeStale
	}

	outcome := c.apply(result, err)
	snapshot = c.state.clone()
	c.mu.Unlock()
	c.notify(snapshot)
	return outcome
}

// apply records a finished request. Callers hold mu.
func (c *Controller) apply(result *contactdto.RelayResult, err error) Outcome {
	c.state.Loading = false

	if err == nil && result != nil && result.Success {
		c.state.Form = contact.FormState{}
		c.state.Errors = contact.ValidationResult{}
		c.state.Status = contact.StatusSent
		c.state.Phase = PhaseSucceeded
		c.state.FocusStatus = true
		return OutcomeSucceeded
	}

	c.state.Phase = PhaseFailed
	c.state.FocusStatus = false

	var relayErr *client.RelayError
	switch {
	case errors.As(err, &relayErr):
		c.state.Status = contact.FailedStatus(relayErr.Message)
		for name, msg := range relayErr.Errors {
			if f := contact.Field(name); f.Valid() {
				c.state.Errors[f] = msg
			}
		}
	case errors.Is(err, client.ErrTimeout):
		c.state.Status = contact.StatusTimeout
	case err != nil:
		c.state.Status = contact.StatusNetworkError
	case result != nil:
		c.state.Status = contact.FailedStatus(result.Error)
	default:
		c.state.Status = contact.StatusNetworkError
	}
	return OutcomeFailed
}
