// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	ErrNotFound  = errors.New("not found")
	ErrNoSession = errors.New("no extraction session, run 'paydown extract' first")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a user-friendly error with an underlying cause.
func NewUserError(userMessage string, err error) *UserError {
	return &UserError{UserMessage: userMessage, Err: err}
}
