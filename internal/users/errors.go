package users

import (
	"errors"
	"fmt"
)

// UserError represents errors the service reports to callers
type UserError struct {
	Type    string
	UserID  string
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s] for user %q: %s (caused by: %v)", e.Type, e.UserID, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s] for user %q: %s", e.Type, e.UserID, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// User error types
const (
	UserErrorTypeNotFound         = "not_found"
	UserErrorTypeValidationFailed = "validation_failed"
	UserErrorTypeInvalidBody      = "invalid_body"
)

// Messages returned to HTTP clients
const (
	MessageUserNotFound  = "User does not exist"
	MessageMissingFields = "Please provide userId or name"
	MessageInvalidBody   = "Invalid request body"
)

// NewUserNotFoundError creates an error for when a user does not exist
func NewUserNotFoundError(userID string) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		UserID:  userID,
		Message: MessageUserNotFound,
	}
}

// NewUserValidationError creates an error for a request missing required fields
func NewUserValidationError(userID string) *UserError {
	return &UserError{
		Type:    UserErrorTypeValidationFailed,
		UserID:  userID,
		Message: MessageMissingFields,
	}
}

// NewUserBodyError creates an error for a request body that could not be decoded
func NewUserBodyError(userID string, cause error) *UserError {
	return &UserError{
		Type:    UserErrorTypeInvalidBody,
		UserID:  userID,
		Message: MessageInvalidBody,
		Cause:   cause,
	}
}

// IsNotFound reports whether err is a not-found UserError
func IsNotFound(err error) bool {
	return hasType(err, UserErrorTypeNotFound)
}

// IsValidation reports whether err is a validation UserError
func IsValidation(err error) bool {
	return hasType(err, UserErrorTypeValidationFailed)
}

// IsInvalidBody reports whether err is an undecodable request body
func IsInvalidBody(err error) bool {
	return hasType(err, UserErrorTypeInvalidBody)
}

func hasType(err error, typ string) bool {
	var ue *UserError
	return errors.As(err, &ue) && ue.Type == typ
}
