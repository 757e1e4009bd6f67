package services

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrEntryConflict      = errors.New("entry conflict could not be resolved")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrHealthDataDisabled = errors.New("health data sharing is disabled")
)

// ValidationError reports the first request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (err *ValidationError) Error() string {
	return err.Field + ": " + err.Message
}

func (err *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalidField(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}
