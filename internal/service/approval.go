package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
)

// Decision is the staff verdict on a pending reservation.
type Decision int

const (
	Approved Decision = iota + 1
	Rejected
)

func (d Decision) String() string {
	switch d {
	case Approved:
		return "approve"
	case Rejected:
		return "reject"
	}
	return "Decision(" + strconv.Itoa(int(d)) + ")"
}

// ParseDecision accepts exactly the wire values "approve" and "reject",
// the inverse of Decision.String.
func ParseDecision(raw string) (Decision, error) {
	switch raw {
	case Approved.String():
		return Approved, nil
	case Rejected.String():
		return Rejected, nil
	}
	return 0, invalid(ErrInvalidDecision, "decision", fmt.Sprintf("unknown value %q", raw))
}

// ApprovalEngine moves pending reservations to APPROVED or REJECTED.
// Approving binds a physical apartment; the engine guarantees that no
// two APPROVED reservations on one apartment overlap.
type ApprovalEngine struct {
	reservations ReservationStore
	apartments   ApartmentStore
	locker       Locker
	publisher    EventPublisher
	now          Clock
}

// NewApprovalEngine wires an ApprovalEngine.  A nil publisher disables
// events and a nil clock defaults to time.Now.
func NewApprovalEngine(reservations ReservationStore, apartments ApartmentStore, locker Locker, publisher EventPublisher, now Clock) *ApprovalEngine {
	if reservations == nil || apartments == nil || locker == nil {
		panic("nil dependency passed to NewApprovalEngine")
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &ApprovalEngine{
		reservations: reservations,
		apartments:   apartments,
		locker:       locker,
		publisher:    publisher,
		now:          now,
	}
}

// Approve applies decision to the reservation.  apartmentID is required
// for Approved and ignored for Rejected.  On success the updated
// reservation is returned.
func (e *ApprovalEngine) Approve(ctx context.Context, reservationID, apartmentID uint64, decision Decision) (*model.Reservation, error) {
	if decision != Approved && decision != Rejected {
		return nil, invalid(ErrInvalidDecision, "decision", "must be approve or reject")
	}
	r, err := e.loadPending(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if decision == Rejected {
		return e.transition(ctx, r, model.StatusRejected, nil)
	}

	if _, err := e.bindable(ctx, apartmentID, r); err != nil {
		return nil, err
	}

	unlock, err := e.locker.Lock(ctx, apartmentLockKey(apartmentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	// re-read both rows under the lock: a concurrent approval or an
	// inventory edit may have committed since they were loaded
	r, err = e.loadPending(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	apt, err := e.bindable(ctx, apartmentID, r)
	if err != nil {
		return nil, err
	}
	busy, err := e.reservations.FindApprovedOverlapping(ctx, []uint64{apt.ID}, r.Stay())
	if err != nil {
		return nil, storeErr("load approved reservations", err)
	}
	if buildOverlapIndex(busy).busy(apt.ID, r.Stay()) {
		log.Printf("approval: conflict reservation=%d apartment=%d", r.ID, apt.ID)
		return nil, ErrConflict
	}
	id := apt.ID
	return e.transition(ctx, r, model.StatusApproved, &id)
}

// RejectExpired rejects every pending reservation whose check-in is not
// after today; such stays can no longer be honoured.  It returns the
// number of reservations rejected.  Reservations resolved concurrently
// are skipped.
func (e *ApprovalEngine) RejectExpired(ctx context.Context, today time.Time) (int, error) {
	pending, err := e.reservations.FindByStatus(ctx, model.StatusWaitingForApprove)
	if err != nil {
		return 0, storeErr("load pending reservations", err)
	}
	day := model.Day(today)
	n := 0
	for _, r := range pending {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if r.CheckIn.After(day) {
			continue
		}
		if _, err := e.Approve(ctx, r.ID, 0, Rejected); err != nil {
			if errors.Is(err, ErrNotPending) || errors.Is(err, ErrReservationNotFound) {
				continue
			}
			return n, err
		}
		n++
	}
	if n > 0 {
		log.Printf("approval: rejected %d expired reservations", n)
	}
	return n, nil
}

func (e *ApprovalEngine) loadPending(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := e.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storeErr("load reservation", err)
	}
	if r.Status != model.StatusWaitingForApprove {
		return nil, ErrNotPending
	}
	return r, nil
}

// bindable loads the apartment and checks that it may be bound to r.
func (e *ApprovalEngine) bindable(ctx context.Context, apartmentID uint64, r *model.Reservation) (*model.Apartment, error) {
	apt, err := e.apartments.FindByID(ctx, apartmentID)
	if err != nil {
		if errors.Is(err, model.ErrApartmentNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, storeErr("load apartment", err)
	}
	if !apt.IsActive {
		return nil, ErrApartmentInactive
	}
	if apt.ClassID != r.ClassID {
		return nil, ErrClassMismatch
	}
	return apt, nil
}

func (e *ApprovalEngine) transition(ctx context.Context, r *model.Reservation, status model.Status, apartmentID *uint64) (*model.Reservation, error) {
	ok, err := e.reservations.UpdateStatusAndApartment(ctx, r.ID, status, apartmentID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrApartmentTaken):
			return nil, ErrConflict
		case errors.Is(err, model.ErrApartmentInactive):
			return nil, ErrApartmentInactive
		case errors.Is(err, model.ErrApartmentClassMismatch):
			return nil, ErrClassMismatch
		case errors.Is(err, model.ErrApartmentNotFound):
			return nil, ErrApartmentNotFound
		}
		return nil, storeErr("update reservation", err)
	}
	if !ok {
		return nil, ErrNotPending
	}
	now := e.now().UTC()
	r.Status = status
	r.ApartmentID = apartmentID
	r.UpdatedAt = now

	typ := queue.EventReservationRejected
	if status == model.StatusApproved {
		typ = queue.EventReservationApproved
		log.Printf("approval: reservation %d approved apartment=%d", r.ID, *apartmentID)
	} else {
		log.Printf("approval: reservation %d rejected", r.ID)
	}
	publish(ctx, e.publisher, queue.NewReservationEvent(typ, *r, now))
	return r, nil
}

func apartmentLockKey(id uint64) string { return "apartment:" + strconv.FormatUint(id, 10) }
