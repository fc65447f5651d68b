package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
)

// BookingRequest is an already type-checked booking attempt.  Dates are
// truncated to their UTC calendar day by the engine.
type BookingRequest struct {
	ClassID   uint64
	CheckIn   time.Time
	CheckOut  time.Time
	Occupants int
}

// BookingOptions tunes the availability gate of Book.
type BookingOptions struct {
	// CountPending subtracts overlapping pending reservations of the class
	// from the number of free apartments.  Off by default: pending
	// reservations carry no apartment and may outnumber units until staff
	// resolve them at approval time.
	CountPending bool
}

// BookingEngine validates guest booking requests and records them as
// pending reservations.
type BookingEngine struct {
	reservations ReservationStore
	classes      ApartmentClassStore
	calc         *Calculator
	locker       Locker
	publisher    EventPublisher
	now          Clock
	opts         BookingOptions
}

// NewBookingEngine wires a BookingEngine.  A nil publisher disables
// events and a nil clock defaults to time.Now.
func NewBookingEngine(reservations ReservationStore, classes ApartmentClassStore, calc *Calculator, locker Locker, publisher EventPublisher, now Clock, opts BookingOptions) *BookingEngine {
	if reservations == nil || classes == nil || calc == nil || locker == nil {
		panic("nil dependency passed to NewBookingEngine")
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &BookingEngine{
		reservations: reservations,
		classes:      classes,
		calc:         calc,
		locker:       locker,
		publisher:    publisher,
		now:          now,
		opts:         opts,
	}
}

// Book checks, in order, occupancy, class existence, the date range and
// availability, stopping at the first failure.  On success it stores a
// WAITING_FOR_APPROVE reservation with no apartment bound and returns it.
func (e *BookingEngine) Book(ctx context.Context, userID uint64, req BookingRequest) (*model.Reservation, error) {
	if req.Occupants <= 0 {
		return nil, invalid(ErrInvalidOccupancy, "occupants", "must be positive")
	}
	class, err := e.classes.FindByID(ctx, req.ClassID)
	if err != nil && !errors.Is(err, model.ErrClassNotFound) {
		return nil, storeErr("load apartment class", err)
	}
	if class != nil && req.Occupants > class.MaxCapacity {
		return nil, invalid(ErrInvalidOccupancy, "occupants", "must not exceed "+strconv.Itoa(class.MaxCapacity))
	}
	if class == nil {
		return nil, invalid(ErrClassNotFound, "class_id", "must reference an existing class")
	}

	stay := model.NewStay(req.CheckIn, req.CheckOut)
	if !stay.CheckIn.Before(stay.CheckOut) {
		return nil, invalid(ErrInvalidDateRange, "check_out", "must be after check_in")
	}
	today := model.Day(e.now())
	if !stay.CheckIn.After(today) {
		return nil, invalid(ErrInvalidDateRange, "check_in", "must be after today")
	}

	// availability check and insert happen under the class lock
	unlock, err := e.locker.Lock(ctx, classLockKey(class.ID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	free, err := e.calc.freeForStay(ctx, class.ID, stay)
	if err != nil {
		return nil, err
	}
	units := len(free)
	if e.opts.CountPending && units > 0 {
		pending, err := e.reservations.CountPendingOverlapping(ctx, class.ID, stay)
		if err != nil {
			return nil, storeErr("count pending reservations", err)
		}
		units -= pending
	}
	if units <= 0 {
		return nil, ErrNoAvailability
	}

	now := e.now().UTC()
	r := &model.Reservation{
		UserID:    userID,
		ClassID:   class.ID,
		CheckIn:   stay.CheckIn,
		CheckOut:  stay.CheckOut,
		Occupants: req.Occupants,
		Status:    model.StatusWaitingForApprove,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := e.reservations.Insert(ctx, r)
	if err != nil {
		return nil, storeErr("insert reservation", err)
	}
	r.ID = id
	log.Printf("booking: reservation created id=%d user=%d class=%d stay=%s..%s occupants=%d",
		r.ID, userID, class.ID, stay.CheckIn.Format(model.DateLayout), stay.CheckOut.Format(model.DateLayout), r.Occupants)
	publish(ctx, e.publisher, queue.NewReservationEvent(queue.EventReservationCreated, *r, now))
	return r, nil
}

// Cancel withdraws a pending reservation on behalf of its owner.  A
// reservation owned by someone else is reported as not found.
func (e *BookingEngine) Cancel(ctx context.Context, userID, reservationID uint64) error {
	r, err := e.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, model.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return storeErr("load reservation", err)
	}
	if r.UserID != userID {
		return ErrReservationNotFound
	}
	if r.Status != model.StatusWaitingForApprove {
		return ErrNotPending
	}
	ok, err := e.reservations.UpdateStatusAndApartment(ctx, r.ID, model.StatusCancelled, nil)
	if err != nil {
		return storeErr("cancel reservation", err)
	}
	if !ok {
		return ErrNotPending
	}
	r.Status = model.StatusCancelled
	log.Printf("booking: reservation cancelled id=%d user=%d", r.ID, userID)
	publish(ctx, e.publisher, queue.NewReservationEvent(queue.EventReservationCancelled, *r, e.now()))
	return nil
}

// ListByUser returns the user's reservations, newest first.
func (e *BookingEngine) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	list, err := e.reservations.FindByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func classLockKey(id uint64) string { return "class:" + strconv.FormatUint(id, 10) }

// publish sends ev without letting a broker failure surface to the
// caller; the write it describes is already committed.
func publish(ctx context.Context, p EventPublisher, ev queue.ReservationEvent) {
	if err := p.Publish(context.WithoutCancel(ctx), ev); err != nil {
		log.Printf("events: publish %s for reservation %d failed: %v", ev.Type, ev.ReservationID, err)
	}
}
