// Package validate holds the client-side form checks. Failing input
// never reaches the network layer.
package validate

import (
	"errors"
	"regexp"
	"unicode"
)

var (
	ErrInvalidName     = errors.New("invalid name format")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrWeakPassword    = errors.New("please choose a stronger password")
	ErrMissingSecret   = errors.New("invalid secret key format")
	ErrMissingPassword = errors.New("password required")
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ'’-]+(?: [A-Za-zÀ-ÖØ-öø-ÿ'’-]+)*$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Name checks display names: letter runs (including accented letters,
// apostrophes and hyphens) separated by single spaces.
func Name(name string) error {
	if !nameRe.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// Email checks the address shape.
func Email(email string) error {
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// Password checks strength: at least 8 characters with a lowercase
// letter, an uppercase letter, a digit and a symbol.
func Password(password string) error {
	if password == "" {
		return ErrMissingPassword
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	length := 0
	for _, r := range password {
		length++
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if length < 8 || !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return ErrWeakPassword
	}
	return nil
}

// SecretKey checks the registration/reset secret.
func SecretKey(key string) error {
	if key == "" {
		return ErrMissingSecret
	}
	return nil
}
