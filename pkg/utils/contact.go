package utils

import (
	"regexp"
	"strings"
)

var (
	// local@domain.tld with no whitespace and a single @
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Permissive: optional leading +, then at least 10 of digits, spaces, hyphens, parentheses
	phoneRegex = regexp.MustCompile(`^[+]?[\d\s\-()]{10,}$`)
)

// IsValidEmail reports whether email looks like local@domain.tld
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhoneNumber reports whether phone matches the registration form pattern.
// Note the pattern counts separators toward the minimum length, so
// "12345-6789" passes while "123456789" does not.
func IsValidPhoneNumber(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// MaskEmail hides most of the local part of an email for logging
// Example: "alice@example.com" -> "a***@example.com"
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
