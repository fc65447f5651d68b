package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ApartmentInput carries the staff-editable fields of an apartment.
// ClassType is the class label, e.g. "Suite".
type ApartmentInput struct {
	Number    string
	Floor     int
	ClassType string
}

// InventoryService manages apartment classes and physical apartments.
type InventoryService struct {
	classes      ApartmentClassStore
	apartments   ApartmentStore
	reservations ReservationStore
	locker       Locker
	now          Clock
}

// NewInventoryService constructs an InventoryService.  locker must be the
// one the ApprovalEngine uses: edits to an apartment hold the same
// apartment:<id> key as approvals binding it.
func NewInventoryService(classes ApartmentClassStore, apartments ApartmentStore, reservations ReservationStore, locker Locker, now Clock) *InventoryService {
	if classes == nil || apartments == nil || reservations == nil || locker == nil {
		panic("nil dependency passed to NewInventoryService")
	}
	if now == nil {
		now = time.Now
	}
	return &InventoryService{classes: classes, apartments: apartments, reservations: reservations, locker: locker, now: now}
}

// Classes lists every apartment class.
func (s *InventoryService) Classes(ctx context.Context) ([]model.ApartmentClass, error) {
	list, err := s.classes.List(ctx)
	if err != nil {
		return nil, storeErr("list classes", err)
	}
	return list, nil
}

// Class returns one class by id.
func (s *InventoryService) Class(ctx context.Context, id uint64) (*model.ApartmentClass, error) {
	c, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrClassNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, storeErr("load class", err)
	}
	return c, nil
}

// Apartments lists all apartments, active or not.
func (s *InventoryService) Apartments(ctx context.Context) ([]model.Apartment, error) {
	list, err := s.apartments.List(ctx)
	if err != nil {
		return nil, storeErr("list apartments", err)
	}
	sortApartments(list)
	return list, nil
}

// AddApartment creates an active apartment of the class named by
// in.ClassType.
func (s *InventoryService) AddApartment(ctx context.Context, in ApartmentInput) (*model.Apartment, error) {
	if err := validateApartment(in); err != nil {
		return nil, err
	}
	class, err := s.classByType(ctx, in.ClassType)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	a := &model.Apartment{
		Number:    strings.TrimSpace(in.Number),
		Floor:     in.Floor,
		ClassID:   class.ID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.apartments.Insert(ctx, a)
	if err != nil {
		return nil, apartmentWriteErr("insert apartment", err)
	}
	a.ID = id
	log.Printf("inventory: apartment %d (%s) added to class %s", a.ID, a.Number, class.Type)
	return a, nil
}

// UpdateApartment edits number, floor and class.  Moving an apartment to
// another class is refused with ErrApartmentInUse while it still has
// approved stays ending after today.
func (s *InventoryService) UpdateApartment(ctx context.Context, id uint64, in ApartmentInput) (*model.Apartment, error) {
	if err := validateApartment(in); err != nil {
		return nil, err
	}
	class, err := s.classByType(ctx, in.ClassType)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, apartmentLockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	a, err := s.apartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if class.ID != a.ClassID {
		inUse, err := s.hasUpcomingStays(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, ErrApartmentInUse
		}
	}
	a.Number = strings.TrimSpace(in.Number)
	a.Floor = in.Floor
	a.ClassID = class.ID
	a.UpdatedAt = s.now().UTC()
	if err := s.apartments.Update(ctx, a); err != nil {
		return nil, apartmentWriteErr("update apartment", err)
	}
	return a, nil
}

// SetApartmentActive toggles whether an apartment may be offered and
// bound.  Deactivation keeps existing approved reservations intact.
func (s *InventoryService) SetApartmentActive(ctx context.Context, id uint64, active bool) error {
	unlock, err := s.locker.Lock(ctx, apartmentLockKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.apartment(ctx, id); err != nil {
		return err
	}
	if err := s.apartments.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, model.ErrApartmentNotFound) {
			return ErrApartmentNotFound
		}
		return storeErr("set apartment active", err)
	}
	log.Printf("inventory: apartment %d active=%t", id, active)
	return nil
}

func (s *InventoryService) apartment(ctx context.Context, id uint64) (*model.Apartment, error) {
	a, err := s.apartments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrApartmentNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, storeErr("load apartment", err)
	}
	return a, nil
}

func (s *InventoryService) classByType(ctx context.Context, label string) (*model.ApartmentClass, error) {
	c, err := s.classes.FindByType(ctx, strings.TrimSpace(label))
	if err != nil {
		if errors.Is(err, model.ErrClassNotFound) {
			return nil, invalid(ErrClassNotFound, "class_type", "must name an existing class")
		}
		return nil, storeErr("load class", err)
	}
	return c, nil
}

// hasUpcomingStays reports whether apartmentID has an approved stay that
// ends after today.
func (s *InventoryService) hasUpcomingStays(ctx context.Context, apartmentID uint64) (bool, error) {
	today := model.Day(s.now())
	// any check-out after today overlaps [today, far future)
	horizon := model.Stay{CheckIn: today, CheckOut: today.AddDate(100, 0, 0)}
	busy, err := s.reservations.FindApprovedOverlapping(ctx, []uint64{apartmentID}, horizon)
	if err != nil {
		return false, storeErr("load approved reservations", err)
	}
	for _, r := range busy {
		if r.CheckOut.After(today) {
			return true, nil
		}
	}
	return false, nil
}

func apartmentWriteErr(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrApartmentNumberExists):
		return invalid(ErrApartmentNumberTaken, "number", "must be unique")
	case errors.Is(err, model.ErrApartmentNotFound):
		return ErrApartmentNotFound
	}
	return storeErr(op, err)
}

func validateApartment(in ApartmentInput) error {
	if strings.TrimSpace(in.Number) == "" {
		return invalid(ErrInvalidApartment, "number", "must not be empty")
	}
	if in.Floor < 0 {
		return invalid(ErrInvalidApartment, "floor", "must not be negative")
	}
	return nil
}
