package constants

// Context keys shared between middleware and handlers
const (
	// ContextKeyContact holds the validated *contact.RelayRequest
	ContextKeyContact = "contact"

	// ContextKeyRequestID holds the X-Request-ID of the current request
	ContextKeyRequestID = "RequestID"
)

// HeaderRequestID is read from and echoed back to clients
const HeaderRequestID = "X-Request-ID"
