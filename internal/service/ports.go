package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
)

// ReservationStore owns reservation records.  FindByID returns
// model.ErrReservationNotFound when the row does not exist.
type ReservationStore interface {
	Insert(ctx context.Context, r *model.Reservation) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*model.Reservation, error)
	FindByStatus(ctx context.Context, status model.Status) ([]model.Reservation, error)
	FindByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	// FindApprovedOverlapping returns APPROVED reservations bound to any of
	// apartmentIDs whose stay overlaps stay.
	FindApprovedOverlapping(ctx context.Context, apartmentIDs []uint64, stay model.Stay) ([]model.Reservation, error)
	// CountPendingOverlapping counts WAITING_FOR_APPROVE reservations of a
	// class whose stay overlaps stay.
	CountPendingOverlapping(ctx context.Context, classID uint64, stay model.Stay) (int, error)
	// UpdateStatusAndApartment moves a pending reservation to status and
	// binds apartmentID in one write.  It returns false without writing
	// when the reservation is no longer pending.
	UpdateStatusAndApartment(ctx context.Context, id uint64, status model.Status, apartmentID *uint64) (bool, error)
}

// ApartmentStore owns the physical inventory.  FindByID returns
// model.ErrApartmentNotFound when the row does not exist.
type ApartmentStore interface {
	FindByID(ctx context.Context, id uint64) (*model.Apartment, error)
	FindActiveByClass(ctx context.Context, classID uint64) ([]model.Apartment, error)
	List(ctx context.Context) ([]model.Apartment, error)
	Insert(ctx context.Context, a *model.Apartment) (uint64, error)
	Update(ctx context.Context, a *model.Apartment) error
	SetActive(ctx context.Context, id uint64, active bool) error
}

// ApartmentClassStore resolves apartment classes by id or label.  Both
// finders return model.ErrClassNotFound when nothing matches.
type ApartmentClassStore interface {
	FindByID(ctx context.Context, id uint64) (*model.ApartmentClass, error)
	FindByType(ctx context.Context, label string) (*model.ApartmentClass, error)
	List(ctx context.Context) ([]model.ApartmentClass, error)
}

// UserStore resolves accounts.  FindByID returns model.ErrUserNotFound
// when the row does not exist.
type UserStore interface {
	FindByID(ctx context.Context, id uint64) (*model.User, error)
}

// EventPublisher delivers reservation lifecycle events downstream.
// Failures are logged by the engines and never undo a committed write.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Locker provides one logical mutex per key.  The returned unlock
// function must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Clock abstracts time.Now so tests can pin "today".
type Clock func() time.Time

// nopPublisher is used when no broker is configured.
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.ReservationEvent) error { return nil }
