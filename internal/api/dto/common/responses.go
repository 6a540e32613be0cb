package common

// APIResponse is the flat envelope returned by every endpoint.
// Failures carry a human-readable Error and, for validation failures,
// one message per offending field in Errors.
type APIResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Code    ErrorCode         `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

// Define type for error codes to enforce consistency
type ErrorCode string

// Standard error codes
const (
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeTooLarge        ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeRelayFailed     ErrorCode = "RELAY_FAILED"
	ErrCodeInternalServer  ErrorCode = "INTERNAL_SERVER_ERROR"
)

// NewSuccessResponse creates a new successful API response
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates a new error API response
func NewErrorResponse(code ErrorCode, message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}
}

// NewValidationErrorResponse creates an error response listing field errors
func NewValidationErrorResponse(message string, fields map[string]string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
		Code:    ErrCodeValidation,
		Errors:  fields,
	}
}
