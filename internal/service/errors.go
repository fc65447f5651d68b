package service

import (
	"errors"
	"fmt"
)

// Booking failures.
var (
	ErrInvalidOccupancy = errors.New("invalid occupancy")
	ErrClassNotFound    = errors.New("apartment class not found")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrNoAvailability   = errors.New("no apartment available for the requested dates")
)

// Approval failures.  ErrConflict is expected under concurrency: the
// caller should retry with another apartment.
var (
	ErrNotPending        = errors.New("reservation is not waiting for approval")
	ErrClassMismatch     = errors.New("apartment does not belong to the reserved class")
	ErrConflict          = errors.New("apartment already approved for overlapping dates")
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrApartmentInactive = errors.New("apartment is not active")
)

// Lookup and inventory failures.
var (
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrApartmentInUse       = errors.New("apartment has approved reservations")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrInvalidApartment     = errors.New("invalid apartment")
	ErrApartmentNumberTaken = errors.New("apartment number already exists")
	ErrInvalidDecision      = errors.New("invalid decision")
)

// ValidationError describes which input was rejected and why.  It
// matches its sentinel with errors.Is so callers can branch on the kind
// and still render Field and Constraint.
type ValidationError struct {
	Field      string
	Constraint string
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Err, e.Field, e.Constraint)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, field, constraint string) error {
	return &ValidationError{Field: field, Constraint: constraint, Err: err}
}

// storeErr wraps a persistence failure.  Callers match it with
// errors.Is(err, ErrStoreUnavailable); the cause stays reachable too.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
