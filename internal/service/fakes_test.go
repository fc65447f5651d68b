package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
)

var errDown = errors.New("connection refused")

// memStore is an in-memory implementation of every store port.  It
// returns copies so callers cannot mutate stored rows.
type memStore struct {
	mu           sync.Mutex
	classes      map[uint64]model.ApartmentClass
	apartments   map[uint64]model.Apartment
	reservations map[uint64]model.Reservation
	nextID       uint64
	fail         bool
}

func newMemStore() *memStore {
	return &memStore{
		classes:      map[uint64]model.ApartmentClass{},
		apartments:   map[uint64]model.Apartment{},
		reservations: map[uint64]model.Reservation{},
		nextID:       100,
	}
}

func (m *memStore) addClass(id uint64, typ string, capacity int) {
	m.classes[id] = model.ApartmentClass{ID: id, Type: typ, MaxCapacity: capacity}
}

func (m *memStore) addApartment(id uint64, number string, classID uint64, active bool) {
	m.apartments[id] = model.Apartment{ID: id, Number: number, Floor: int(id / 100), ClassID: classID, IsActive: active}
}

func (m *memStore) addReservation(r model.Reservation) {
	m.reservations[r.ID] = r
}

func (m *memStore) reservation(id uint64) model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations[id]
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

// ReservationStore

func (m *memStore) Insert(_ context.Context, r *model.Reservation) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return 0, errDown
	}
	m.nextID++
	c := *r
	c.ID = m.nextID
	m.reservations[c.ID] = c
	return c.ID, nil
}

func (m *memStore) FindByID(_ context.Context, id uint64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errDown
	}
	r, ok := m.reservations[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	return &r, nil
}

func (m *memStore) FindByStatus(_ context.Context, status model.Status) ([]model.Reservation, error) {
	return m.filter(func(r model.Reservation) bool { return r.Status == status })
}

func (m *memStore) FindByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	return m.filter(func(r model.Reservation) bool { return r.UserID == userID })
}

func (m *memStore) FindApprovedOverlapping(_ context.Context, apartmentIDs []uint64, stay model.Stay) ([]model.Reservation, error) {
	ids := map[uint64]bool{}
	for _, id := range apartmentIDs {
		ids[id] = true
	}
	return m.filter(func(r model.Reservation) bool {
		return r.Status == model.StatusApproved && r.ApartmentID != nil && ids[*r.ApartmentID] && r.Stay().Overlaps(stay)
	})
}

func (m *memStore) CountPendingOverlapping(_ context.Context, classID uint64, stay model.Stay) (int, error) {
	list, err := m.filter(func(r model.Reservation) bool {
		return r.Status == model.StatusWaitingForApprove && r.ClassID == classID && r.Stay().Overlaps(stay)
	})
	return len(list), err
}

func (m *memStore) UpdateStatusAndApartment(_ context.Context, id uint64, status model.Status, apartmentID *uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, errDown
	}
	r, ok := m.reservations[id]
	if !ok || r.Status != model.StatusWaitingForApprove {
		return false, nil
	}
	if status == model.StatusApproved && apartmentID != nil {
		a, ok := m.apartments[*apartmentID]
		switch {
		case !ok:
			return false, model.ErrApartmentNotFound
		case !a.IsActive:
			return false, model.ErrApartmentInactive
		case a.ClassID != r.ClassID:
			return false, model.ErrApartmentClassMismatch
		}
	}
	r.Status = status
	if apartmentID != nil {
		v := *apartmentID
		r.ApartmentID = &v
	}
	m.reservations[id] = r
	return true, nil
}

func (m *memStore) filter(keep func(model.Reservation) bool) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errDown
	}
	var out []model.Reservation
	for _, r := range m.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// apartmentView exposes the apartment half of memStore; method names
// collide with the reservation half.
type apartmentView struct{ m *memStore }

func (v apartmentView) FindByID(_ context.Context, id uint64) (*model.Apartment, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.fail {
		return nil, errDown
	}
	a, ok := v.m.apartments[id]
	if !ok {
		return nil, model.ErrApartmentNotFound
	}
	return &a, nil
}

func (v apartmentView) FindActiveByClass(_ context.Context, classID uint64) ([]model.Apartment, error) {
	return v.list(func(a model.Apartment) bool { return a.IsActive && a.ClassID == classID })
}

func (v apartmentView) List(_ context.Context) ([]model.Apartment, error) {
	return v.list(func(model.Apartment) bool { return true })
}

func (v apartmentView) Insert(_ context.Context, a *model.Apartment) (uint64, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.fail {
		return 0, errDown
	}
	v.m.nextID++
	c := *a
	c.ID = v.m.nextID
	v.m.apartments[c.ID] = c
	return c.ID, nil
}

func (v apartmentView) Update(_ context.Context, a *model.Apartment) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if _, ok := v.m.apartments[a.ID]; !ok {
		return model.ErrApartmentNotFound
	}
	v.m.apartments[a.ID] = *a
	return nil
}

func (v apartmentView) SetActive(_ context.Context, id uint64, active bool) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	a, ok := v.m.apartments[id]
	if !ok {
		return model.ErrApartmentNotFound
	}
	a.IsActive = active
	v.m.apartments[id] = a
	return nil
}

func (v apartmentView) list(keep func(model.Apartment) bool) ([]model.Apartment, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.fail {
		return nil, errDown
	}
	var out []model.Apartment
	for _, a := range v.m.apartments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// hookedApartments runs onFind after the first FindByID, standing in for
// a staff edit that lands between two reads of the same apartment.
type hookedApartments struct {
	apartmentView
	once   sync.Once
	onFind func()
}

func (h *hookedApartments) FindByID(ctx context.Context, id uint64) (*model.Apartment, error) {
	a, err := h.apartmentView.FindByID(ctx, id)
	h.once.Do(h.onFind)
	return a, err
}

// staleApartments serves a snapshot taken before later edits, like a
// second process whose reads predate the change.
type staleApartments struct {
	apartmentView
	snapshot map[uint64]model.Apartment
}

func (s staleApartments) FindByID(_ context.Context, id uint64) (*model.Apartment, error) {
	a, ok := s.snapshot[id]
	if !ok {
		return nil, model.ErrApartmentNotFound
	}
	return &a, nil
}

// keyLocker records every key it is asked to lock.
type keyLocker struct {
	mu   sync.Mutex
	keys []string
}

func (l *keyLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return func() {}, nil
}

type classView struct{ m *memStore }

func (v classView) FindByID(_ context.Context, id uint64) (*model.ApartmentClass, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if v.m.fail {
		return nil, errDown
	}
	c, ok := v.m.classes[id]
	if !ok {
		return nil, model.ErrClassNotFound
	}
	return &c, nil
}

func (v classView) FindByType(_ context.Context, label string) (*model.ApartmentClass, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	for _, c := range v.m.classes {
		if strings.EqualFold(c.Type, label) {
			return &c, nil
		}
	}
	return nil, model.ErrClassNotFound
}

func (v classView) List(_ context.Context) ([]model.ApartmentClass, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	out := make([]model.ApartmentClass, 0, len(v.m.classes))
	for _, c := range v.m.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// mutexLocker is a single global lock; good enough for engine tests.
type mutexLocker struct{ mu sync.Mutex }

func (l *mutexLocker) Lock(context.Context, string) (func(), error) {
	l.mu.Lock()
	return l.mu.Unlock, nil
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock(s string) Clock {
	t := day(s).Add(15 * time.Hour)
	return func() time.Time { return t }
}

func ptr(v uint64) *uint64 { return &v }

func pending(id, classID uint64, in, out string) model.Reservation {
	return model.Reservation{ID: id, UserID: 1, ClassID: classID, CheckIn: day(in), CheckOut: day(out), Occupants: 1, Status: model.StatusWaitingForApprove}
}

func approved(id, classID, apartmentID uint64, in, out string) model.Reservation {
	r := pending(id, classID, in, out)
	r.Status = model.StatusApproved
	r.ApartmentID = ptr(apartmentID)
	return r
}
