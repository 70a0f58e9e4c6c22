// Package validate holds the pass/fail input validators used during sign-up,
// password reset and profile updates.
package validate

import (
	"regexp"
	"unicode"
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_ .\-]{3,30}$`)
)

// Identity reports whether s is an acceptable email-shaped identity.
func Identity(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

// Username reports whether s is an acceptable display name.
func Username(s string) bool {
	return usernameRe.MatchString(s)
}

// Password reports whether s satisfies the strength policy: at least 8
// characters with an upper-case letter, a lower-case letter, a digit and a
// special character.
func Password(s string) bool {
	if len(s) < 8 || len(s) > 72 {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}
