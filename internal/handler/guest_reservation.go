package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/service"
)

// Booker is the booking side of the reservation service.
type Booker interface {
	Book(ctx context.Context, userID uint64, req service.BookingRequest) (*model.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
}

// GuestHandler serves the guest reservation endpoints.  Routes are
// expected behind JWTAuth and RequireRole(GUEST).
type GuestHandler struct {
	Booking Booker
}

func NewGuestHandler(b Booker) *GuestHandler {
	if b == nil {
		panic("nil booker passed to NewGuestHandler")
	}
	return &GuestHandler{Booking: b}
}

type bookRequest struct {
	ClassID   uint64 `json:"class_id" validate:"required,gt=0"`
	CheckIn   string `json:"check_in" validate:"required"`
	CheckOut  string `json:"check_out" validate:"required"`
	Occupants int    `json:"occupants"`
}

// Create handles POST /v1/reservations.  Dates are YYYY-MM-DD.  The new
// reservation waits for staff approval and has no apartment yet.
func (h *GuestHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body bookRequest
	if ok, werr := bindAndValidate(c, &body); !ok {
		return werr
	}
	checkIn, ok, werr := parseDate(c, "check_in", body.CheckIn)
	if !ok {
		return werr
	}
	checkOut, ok, werr := parseDate(c, "check_out", body.CheckOut)
	if !ok {
		return werr
	}

	r, err := h.Booking.Book(c.Request().Context(), userID, service.BookingRequest{
		ClassID:   body.ClassID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Occupants: body.Occupants,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservation(*r))
}

// List handles GET /v1/my-reservations.
func (h *GuestHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Booking.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]reservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReservation(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Cancel handles DELETE /v1/reservations/:id for a pending reservation
// owned by the caller.
func (h *GuestHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Booking.Cancel(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
