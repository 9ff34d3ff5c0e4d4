package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrEmailTaken         = errors.New("email already exists")
	ErrAlreadyApplied     = errors.New("already applied to this job")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrInvalidOtp         = errors.New("invalid otp")
	ErrExpiredOtp         = errors.New("otp expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfDelete         = errors.New("cannot delete yourself")
	ErrValidation         = errors.New("validation failed")
	ErrDelivery           = errors.New("delivery failed")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// ValidationError names the offending field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
