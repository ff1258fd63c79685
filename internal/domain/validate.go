package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationError reports a single rejected input field. It is always
// recoverable: the caller corrects the field and resubmits.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
}

func invalidField(field, constraint string) error {
	return &ValidationError{Field: field, Constraint: constraint}
}

func requireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidField(field, "must not be empty")
	}
	return nil
}

func validateEmail(field, value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return invalidField(field, "must be a valid email address")
	}
	return nil
}
