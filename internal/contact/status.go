package contact

// Status lines shown to the visitor. Tests and front-ends match on the
// substrings "wait", "fix the errors", "Network error", "Failed" and
// "sent successfully", so keep those intact when rewording.
const (
	StatusCooldown     = "Please wait a moment before sending another message."
	StatusInvalid      = "Please fix the errors above and try again."
	StatusSending      = "Sending..."
	StatusSent         = "Message sent successfully! I'll get back to you soon."
	StatusNetworkError = "Network error. Please check your connection and try again."
	StatusTimeout      = "Request timed out. Please try again."
	StatusFailedPrefix = "Failed to send message"
	StatusRateLimited  = "Too many requests. Please try again later."
)

// FailedStatus renders a server-reported failure.
func FailedStatus(reason string) string {
	if reason == "" {
		return StatusFailedPrefix + "."
	}
	return StatusFailedPrefix + ": " + reason
}
