package domain

import (
	"errors"
	"fmt"
)

// ErrMessageNotFound is returned by stores when the id is unknown
var ErrMessageNotFound = errors.New("message not found")

// FetchError wraps a failure to retrieve one message
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch message %s: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ValidationError reports a malformed request
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
