package service

import "errors"

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidRole        = errors.New("invalid role")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")

	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Class errors.
var (
	ErrMissingName    = errors.New("missing class name")
	ErrDuplicateClass = errors.New("class already exists")
	ErrClassNotFound  = errors.New("class not found")
)

// Broadcast errors.
var (
	ErrNoRecipients = errors.New("no recipients found for this group")
	ErrInvalidClass = errors.New("class must be a numeric class id")
)

// TransportError wraps a mail transport failure. Its message is passed through
// to the caller on the send path.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
