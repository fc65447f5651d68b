package handler

import (
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

type reservationResponse struct {
	ID          uint64  `json:"id"`
	UserID      uint64  `json:"user_id"`
	ClassID     uint64  `json:"class_id"`
	ApartmentID *uint64 `json:"apartment_id"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	Nights      int     `json:"nights"`
	Occupants   int     `json:"occupants"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

func toReservation(r model.Reservation) reservationResponse {
	out := reservationResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		ClassID:     r.ClassID,
		ApartmentID: r.ApartmentID,
		CheckIn:     r.CheckIn.Format(model.DateLayout),
		CheckOut:    r.CheckOut.Format(model.DateLayout),
		Nights:      r.Stay().Nights(),
		Occupants:   r.Occupants,
		Status:      string(r.Status),
	}
	if !r.CreatedAt.IsZero() {
		out.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

type apartmentResponse struct {
	ID       uint64 `json:"id"`
	Number   string `json:"number"`
	Floor    int    `json:"floor"`
	ClassID  uint64 `json:"class_id"`
	IsActive bool   `json:"is_active"`
}

func toApartment(a model.Apartment) apartmentResponse {
	return apartmentResponse{ID: a.ID, Number: a.Number, Floor: a.Floor, ClassID: a.ClassID, IsActive: a.IsActive}
}

func toApartments(list []model.Apartment) []apartmentResponse {
	out := make([]apartmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toApartment(a))
	}
	return out
}

type classResponse struct {
	ID          uint64 `json:"id"`
	Type        string `json:"type"`
	MaxCapacity int    `json:"max_capacity"`
}

func toClass(c model.ApartmentClass) classResponse {
	return classResponse{ID: c.ID, Type: c.Type, MaxCapacity: c.MaxCapacity}
}
