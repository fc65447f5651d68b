// Package queue defines reservation event payloads exchanged over the
// message broker together with the publisher and the audit consumer.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Event types published to QueueName.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationApproved  = "reservation.approved"
	EventReservationRejected  = "reservation.rejected"
	EventReservationCancelled = "reservation.cancelled"
)

// QueueName is the durable queue all reservation events are routed to.
const QueueName = "reservation.events"

// ReservationEvent is published after a reservation is created or
// reaches a terminal status.  It carries enough data for downstream
// consumers to audit or notify without querying the primary database.
type ReservationEvent struct {
	EventID       string  `json:"event_id"`
	Type          string  `json:"type"`
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	ClassID       uint64  `json:"class_id"`
	ApartmentID   *uint64 `json:"apartment_id,omitempty"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Occupants     int     `json:"occupants"`
	Status        string  `json:"status"`
	OccurredAt    string  `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type from r.
func NewReservationEvent(typ string, r model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		ReservationID: r.ID,
		UserID:        r.UserID,
		ClassID:       r.ClassID,
		ApartmentID:   r.ApartmentID,
		CheckIn:       r.CheckIn.Format(model.DateLayout),
		CheckOut:      r.CheckOut.Format(model.DateLayout),
		Occupants:     r.Occupants,
		Status:        string(r.Status),
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
