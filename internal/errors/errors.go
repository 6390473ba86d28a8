package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrCodeInvalid         = errors.New("code is incorrect or expired")
	ErrAlreadyConfirmed    = errors.New("code already confirmed")
	ErrForbidden           = errors.New("device belongs to another user")
	ErrSessionNotFound     = errors.New("device session not found")
	ErrUserNotFound        = errors.New("user not found")
)

// FieldError ties a validation message to the input field it concerns.
// The API surfaces these as the errorsMessages array on 400 responses.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}
