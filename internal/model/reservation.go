package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a reservation.  A reservation starts
// in StatusWaitingForApprove and moves exactly once to one of the
// terminal states.
type Status string

const (
	StatusWaitingForApprove Status = "WAITING_FOR_APPROVE"
	StatusApproved          Status = "APPROVED"
	StatusRejected          Status = "REJECTED"
	StatusCancelled         Status = "CANCELLED"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusWaitingForApprove || s.Terminal()
}

// ParseStatus converts a case-insensitive status name into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown reservation status %q", raw)
	}
	return s, nil
}

// Reservation is a guest's request to stay in an apartment of a given
// class.  ApartmentID stays nil until staff approve the reservation and
// bind a physical apartment to it.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – guest who owns the reservation.
//  ClassID     – requested apartment class.
//  ApartmentID – bound apartment (nil unless approved).
//  CheckIn     – first night, UTC midnight.
//  CheckOut    – departure day, UTC midnight (exclusive).
//  Occupants   – number of guests staying.
//  Status      – lifecycle state.
type Reservation struct {
	ID          uint64    // reservations.id
	UserID      uint64    // reservations.user_id
	ClassID     uint64    // reservations.class_id
	ApartmentID *uint64   // reservations.apartment_id (nullable)
	CheckIn     time.Time // reservations.check_in
	CheckOut    time.Time // reservations.check_out
	Occupants   int       // reservations.occupants
	Status      Status    // reservations.status
	CreatedAt   time.Time // reservations.created_at
	UpdatedAt   time.Time // reservations.updated_at
}

// Stay returns the reserved date range.
func (r Reservation) Stay() Stay {
	return Stay{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}
