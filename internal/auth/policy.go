package auth

import (
	"strings"
	"unicode"
)

// Punctuation accepted by the strength policy. The set is fixed; other
// symbols do not count.
const passwordPunct = "!@#$%^&*()-_=+[{]}\\|;:'\",<.>/?`~"

const minPasswordLen = 8

// IsPasswordStrong reports whether password satisfies the registration
// policy: at least 8 characters with one uppercase letter, one lowercase
// letter, one digit and one punctuation character.
func IsPasswordStrong(password string) bool {
	if len(password) < minPasswordLen {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasPunct bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordPunct, r):
			hasPunct = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasPunct
}
