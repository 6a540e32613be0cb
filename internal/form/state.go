package form

import "github.com/osa911/portfolio/internal/contact"

// Phase is where the controller stands in the submission cycle. Blocked,
// Invalid, Succeeded and Failed are resting phases: a new Submit may start
// from any of them, the same as from Idle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseBlocked   Phase = "blocked"
	PhaseInvalid   Phase = "invalid"
	PhaseSending   Phase = "sending"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Outcome is the result of one Submit call.
type Outcome int

const (
	OutcomeBlocked Outcome = iota
	OutcomeInvalid
	OutcomeBusy
	OutcomeSucceeded
	OutcomeFailed
	// OutcomeStale means the form was reset while the request was in
	// flight; its result was not applied.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeBusy:
		return "busy"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// State is a snapshot of everything a view needs to render the form.
type State struct {
	Form    contact.FormState
	Errors  contact.ValidationResult
	Loading bool
	Status  string
	Phase   Phase
	// FocusStatus asks the view to move focus to the status line.
	FocusStatus bool
}

func (s State) clone() State {
	s.Errors = s.Errors.Clone()
	return s
}
