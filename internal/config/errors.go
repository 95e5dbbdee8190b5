package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration wraps every problem found in the ROA info.
var ErrConfiguration = errors.New("configuration error")

// FieldError describes one missing or invalid field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is a collection of field errors.
type FieldErrors []*FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Add appends a field error.
func (e *FieldErrors) Add(field, message string) {
	*e = append(*e, &FieldError{Field: field, Message: message})
}

// HasErrors returns true if there are any field errors.
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e FieldErrors) Unwrap() error {
	return ErrConfiguration
}
