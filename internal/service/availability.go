package service

import (
	"context"
	"sort"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Calculator answers which physical apartments are free for pending
// reservations.  It only reads; it never writes.
type Calculator struct {
	reservations ReservationStore
	apartments   ApartmentStore
}

// NewCalculator constructs a Calculator over the given stores.
func NewCalculator(reservations ReservationStore, apartments ApartmentStore) *Calculator {
	if reservations == nil || apartments == nil {
		panic("nil store passed to NewCalculator")
	}
	return &Calculator{reservations: reservations, apartments: apartments}
}

// PendingReservation pairs a waiting reservation with the apartments
// staff may currently bind to it.
type PendingReservation struct {
	Reservation model.Reservation
	Free        []model.Apartment
}

// FreeApartments returns, for every input reservation, each active
// apartment of the reservation's class that has no APPROVED reservation
// overlapping its stay.  Reservations are evaluated independently: one
// apartment may be listed for two pending reservations that overlap each
// other, and the approval engine admits at most one of them.  Every
// input id is present in the result, with an empty slice when nothing is
// free.
func (c *Calculator) FreeApartments(ctx context.Context, reservations []model.Reservation) (map[uint64][]model.Apartment, error) {
	out := make(map[uint64][]model.Apartment, len(reservations))
	if len(reservations) == 0 {
		return out, nil
	}
	approved, err := c.reservations.FindByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, storeErr("load approved reservations", err)
	}
	idx := buildOverlapIndex(approved)

	// one inventory read per class
	byClass := make(map[uint64][]model.Apartment)
	for _, r := range reservations {
		if _, ok := byClass[r.ClassID]; ok {
			continue
		}
		apts, err := c.apartments.FindActiveByClass(ctx, r.ClassID)
		if err != nil {
			return nil, storeErr("load apartments", err)
		}
		sortApartments(apts)
		byClass[r.ClassID] = apts
	}

	for _, r := range reservations {
		stay := r.Stay()
		free := make([]model.Apartment, 0, len(byClass[r.ClassID]))
		for _, a := range byClass[r.ClassID] {
			// the store filters already; keep the guarantee local too
			if !a.IsActive || a.ClassID != r.ClassID {
				continue
			}
			if idx.busy(a.ID, stay) {
				continue
			}
			free = append(free, a)
		}
		out[r.ID] = free
	}
	return out, nil
}

// PendingWithFree loads every reservation waiting for approval and the
// apartments free for each of them, oldest reservation first.
func (c *Calculator) PendingWithFree(ctx context.Context) ([]PendingReservation, error) {
	pending, err := c.reservations.FindByStatus(ctx, model.StatusWaitingForApprove)
	if err != nil {
		return nil, storeErr("load pending reservations", err)
	}
	free, err := c.FreeApartments(ctx, pending)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	out := make([]PendingReservation, 0, len(pending))
	for _, r := range pending {
		out = append(out, PendingReservation{Reservation: r, Free: free[r.ID]})
	}
	return out, nil
}

// freeForStay lists the active apartments of classID with no approved
// reservation overlapping stay.  It is the single-class form of
// FreeApartments used by the booking engine; only the class's
// apartments are consulted.
func (c *Calculator) freeForStay(ctx context.Context, classID uint64, stay model.Stay) ([]model.Apartment, error) {
	apts, err := c.apartments.FindActiveByClass(ctx, classID)
	if err != nil {
		return nil, storeErr("load apartments", err)
	}
	if len(apts) == 0 {
		return nil, nil
	}
	ids := make([]uint64, 0, len(apts))
	for _, a := range apts {
		ids = append(ids, a.ID)
	}
	approved, err := c.reservations.FindApprovedOverlapping(ctx, ids, stay)
	if err != nil {
		return nil, storeErr("load approved reservations", err)
	}
	idx := buildOverlapIndex(approved)
	sortApartments(apts)
	free := apts[:0]
	for _, a := range apts {
		if a.IsActive && a.ClassID == classID && !idx.busy(a.ID, stay) {
			free = append(free, a)
		}
	}
	return free, nil
}

// sortApartments orders by floor, then number, then id for stable display.
func sortApartments(apts []model.Apartment) {
	sort.SliceStable(apts, func(i, j int) bool {
		if apts[i].Floor != apts[j].Floor {
			return apts[i].Floor < apts[j].Floor
		}
		if apts[i].Number != apts[j].Number {
			return apts[i].Number < apts[j].Number
		}
		return apts[i].ID < apts[j].ID
	})
}
