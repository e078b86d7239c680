package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for callers that need to react to it
// (HTTP status mapping, retry decisions, metrics labels).
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindIllegalTransition ErrorKind = "illegal_transition"
	KindConflict          ErrorKind = "conflict"
	KindUnavailable       ErrorKind = "unavailable"
	KindInternal          ErrorKind = "internal"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrShipmentNotFound      = errors.New("shipment not found")
	ErrIllegalTransition     = errors.New("illegal status transition")
	ErrConflict              = errors.New("tracking code conflict")
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)

// State machine failures. Each one wraps ErrIllegalTransition.
var (
	ErrAlreadyDelivered    = fmt.Errorf("%w: shipment already delivered", ErrIllegalTransition)
	ErrNoAdvanceRule       = fmt.Errorf("%w: no advance rule for current status", ErrIllegalTransition)
	ErrInvalidStatus       = fmt.Errorf("%w: requested status is not allowed", ErrIllegalTransition)
	ErrIllegalCancellation = fmt.Errorf("%w: a delivered shipment cannot be cancelled", ErrIllegalTransition)
	ErrNotDelivered        = fmt.Errorf("%w: only delivered shipments can be returned", ErrIllegalTransition)
	ErrAlreadyReturned     = fmt.Errorf("%w: shipment already returned", ErrIllegalTransition)
)

// ErrDuplicateShipment is returned by repositories when an insert collides on
// id or tracking code. It is retryable: re-read the counter and regenerate.
var ErrDuplicateShipment = fmt.Errorf("%w: shipment already exists", ErrConflict)

// ErrRequestInProgress is returned when another create holding the same
// Idempotency-Key has not finished yet.
var ErrRequestInProgress = fmt.Errorf("%w: idempotency key in use", ErrConflict)

// ValidationError reports a malformed input field. The message is meant to be
// shown to the caller verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the ErrorKind of err. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrShipmentNotFound):
		return KindNotFound
	case errors.Is(err, ErrIllegalTransition):
		return KindIllegalTransition
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrRepositoryUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// NewValidationError builds a ValidationError for checks that live outside
// this package (search terms, date ranges).
func NewValidationError(field, format string, args ...any) *ValidationError {
	return invalid(field, format, args...)
}
