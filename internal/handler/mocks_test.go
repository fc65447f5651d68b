package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/service"
)

type bookerMock struct{ mock.Mock }

func (m *bookerMock) Book(ctx context.Context, userID uint64, req service.BookingRequest) (*model.Reservation, error) {
	args := m.Called(ctx, userID, req)
	r, _ := args.Get(0).(*model.Reservation)
	return r, args.Error(1)
}

func (m *bookerMock) Cancel(ctx context.Context, userID, reservationID uint64) error {
	return m.Called(ctx, userID, reservationID).Error(0)
}

func (m *bookerMock) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	args := m.Called(ctx, userID)
	l, _ := args.Get(0).([]model.Reservation)
	return l, args.Error(1)
}

type approverMock struct{ mock.Mock }

func (m *approverMock) Approve(ctx context.Context, reservationID, apartmentID uint64, d service.Decision) (*model.Reservation, error) {
	args := m.Called(ctx, reservationID, apartmentID, d)
	r, _ := args.Get(0).(*model.Reservation)
	return r, args.Error(1)
}

func (m *approverMock) PendingWithFree(ctx context.Context) ([]service.PendingReservation, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]service.PendingReservation)
	return l, args.Error(1)
}

type inventoryMock struct{ mock.Mock }

func (m *inventoryMock) Classes(ctx context.Context) ([]model.ApartmentClass, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]model.ApartmentClass)
	return l, args.Error(1)
}

func (m *inventoryMock) Class(ctx context.Context, id uint64) (*model.ApartmentClass, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.ApartmentClass)
	return c, args.Error(1)
}

func (m *inventoryMock) Apartments(ctx context.Context) ([]model.Apartment, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]model.Apartment)
	return l, args.Error(1)
}

func (m *inventoryMock) AddApartment(ctx context.Context, in service.ApartmentInput) (*model.Apartment, error) {
	args := m.Called(ctx, in)
	a, _ := args.Get(0).(*model.Apartment)
	return a, args.Error(1)
}

func (m *inventoryMock) UpdateApartment(ctx context.Context, id uint64, in service.ApartmentInput) (*model.Apartment, error) {
	args := m.Called(ctx, id, in)
	a, _ := args.Get(0).(*model.Apartment)
	return a, args.Error(1)
}

func (m *inventoryMock) SetApartmentActive(ctx context.Context, id uint64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type usersMock struct{ mock.Mock }

func (m *usersMock) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}
