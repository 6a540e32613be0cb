package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/constants"
	"github.com/osa911/portfolio/internal/api/dto/common"
	contactdto "github.com/osa911/portfolio/internal/api/dto/v1/contact"
	"github.com/osa911/portfolio/internal/contact"
	mailer "github.com/osa911/portfolio/internal/mail"
	"github.com/osa911/portfolio/internal/service"
	"github.com/osa911/portfolio/internal/utils"
)

// Relayer dispatches one contact message. *service.RelayService satisfies it.
type Relayer interface {
	Relay(ctx context.Context, form contact.FormState, info service.SubmissionInfo) (*mailer.Ack, error)
}

type ContactHandler struct {
	relay Relayer
}

func NewContactHandler(relay Relayer) *ContactHandler {
	return &ContactHandler{relay: relay}
}

// Submit relays the request validated by ValidateContactRequest. A relay
// failure is answered with 500 and the transport's error text.
func (h *ContactHandler) Submit(c *gin.Context) {
	// Get contact data from context (set by validation middleware)
	data, exists := c.Get(constants.ContextKeyContact)
	if !exists {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Contact data not found in context")
		return
	}

	req, ok := data.(*contactdto.RelayRequest)
	if !ok {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Invalid contact data format")
		return
	}

	info := service.SubmissionInfo{
		RequestID: c.GetString(constants.ContextKeyRequestID),
		IPAddress: utils.GetRealIP(c),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}

	if _, err := h.relay.Relay(c.Request.Context(), req.Form(), info); err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeRelayFailed, err.Error())
		return
	}

	c.JSON(http.StatusOK, contactdto.RelayResult{Success: true})
}
