package sanitization

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeHeader makes input safe for a single-line header value: control
// characters (CR and LF included) become spaces, runs of whitespace collapse
// to one space, and the result is trimmed.
func SanitizeHeader(input string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)

	// Remove multiple spaces
	safe = whitespaceRun.ReplaceAllString(safe, " ")

	// Trim whitespace
	return strings.TrimSpace(safe)
}

// SanitizeEmail normalises an email address for use in headers
func SanitizeEmail(input string) string {
	// Drop anything that could break out of the header
	email := SanitizeHeader(input)

	// Addresses never contain spaces
	email = strings.ReplaceAll(email, " ", "")

	// The local part may be case-sensitive, the domain never is
	if at := strings.LastIndex(email, "@"); at >= 0 {
		email = email[:at+1] + strings.ToLower(email[at+1:])
	}
	return email
}
