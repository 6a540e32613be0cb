package contact

import (
	"github.com/osa911/portfolio/internal/api/dto/common"
	domain "github.com/osa911/portfolio/internal/contact"
)

// RelayRequest is the JSON body of POST /api/contact.
type RelayRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// RelayResult is the JSON body answered by POST /api/contact.
type RelayResult = common.APIResponse

// NewRelayRequest copies a form draft into a wire payload.
func NewRelayRequest(form domain.FormState) RelayRequest {
	return RelayRequest{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
	}
}

// Form converts the payload back into a form draft.
func (r RelayRequest) Form() domain.FormState {
	return domain.FormState{
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Message: r.Message,
	}
}
