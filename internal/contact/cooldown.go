package contact

import "time"

// Cooldown is the minimum interval between two submission attempts from the
// same form.
const Cooldown = 2000 * time.Millisecond

// CanSubmit reports whether more than Cooldown has elapsed since last.
// A zero last means nothing was sent yet.
func CanSubmit(last, now time.Time) bool {
	if last.IsZero() {
		return true
	}
	return now.Sub(last) > Cooldown
}
