package domain

import "errors"

// AuthError means the caller's credentials cannot be used. It aborts the request.
type AuthError struct {
	Message string
	Err     error
}

func NewAuthError(message string, err error) *AuthError {
	return &AuthError{Message: message, Err: err}
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err or anything it wraps is an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
