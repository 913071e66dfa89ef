package auth

import (
	"regexp"
	"strings"

	"gratitude/internal/store"
)

// Basic local@domain.tld shape; anything stricter belongs to a mail check,
// not a signup form.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const MinPasswordLen = 8

// ValidateSignup enforces the signup rules before any database work:
// well-shaped email, password of at least MinPasswordLen, confirmation
// equal to the password.
func ValidateSignup(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" || !emailRe.MatchString(email) {
		return &store.ValidationError{Msg: "please enter a valid email address"}
	}
	if len(password) < MinPasswordLen {
		return &store.ValidationError{Msg: "password must be at least 8 characters"}
	}
	if password != confirm {
		return &store.ValidationError{Msg: "passwords do not match"}
	}
	return nil
}

// ValidateLogin only requires both fields to be present. Format checks at
// login would leak which part of a credential is wrong.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return &store.ValidationError{Msg: "email and password are required"}
	}
	return nil
}
