package model

import "errors"

// Lookup failures returned by the stores when a row does not exist.
var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrApartmentNotFound   = errors.New("apartment not found")
	ErrClassNotFound       = errors.New("apartment class not found")
	ErrUserNotFound        = errors.New("user not found")
)

// ErrApartmentNumberExists is returned when another apartment already
// uses the number.
var ErrApartmentNumberExists = errors.New("apartment number already exists")

// Binding refusals returned by a store that re-reads the apartment row
// inside the transaction that binds it.
var (
	ErrApartmentInactive      = errors.New("apartment is not active")
	ErrApartmentClassMismatch = errors.New("apartment does not belong to the reserved class")
)

// ErrApartmentTaken is returned by a store that re-checks, inside its own
// transaction, that an apartment is still free before binding it.
var ErrApartmentTaken = errors.New("apartment already approved for overlapping dates")
