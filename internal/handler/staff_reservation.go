package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/service"
)

// Approver resolves pending reservations.
type Approver interface {
	Approve(ctx context.Context, reservationID, apartmentID uint64, d service.Decision) (*model.Reservation, error)
}

// PendingLister lists pending reservations with their free apartments.
type PendingLister interface {
	PendingWithFree(ctx context.Context) ([]service.PendingReservation, error)
}

// StaffReservationHandler serves the approval queue.  Routes are
// expected behind JWTAuth and RequireRole(STAFF).
type StaffReservationHandler struct {
	Approvals Approver
	Pending   PendingLister
}

func NewStaffReservationHandler(a Approver, p PendingLister) *StaffReservationHandler {
	if a == nil || p == nil {
		panic("nil dependency passed to NewStaffReservationHandler")
	}
	return &StaffReservationHandler{Approvals: a, Pending: p}
}

type pendingResponse struct {
	reservationResponse
	FreeApartments []apartmentResponse `json:"free_apartments"`
}

// ListPending handles GET /v1/staff/reservations/pending.  Each entry
// lists the apartments that can currently be bound to it.
func (h *StaffReservationHandler) ListPending(c echo.Context) error {
	list, err := h.Pending.PendingWithFree(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]pendingResponse, 0, len(list))
	for _, p := range list {
		out = append(out, pendingResponse{
			reservationResponse: toReservation(p.Reservation),
			FreeApartments:      toApartments(p.Free),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

type decisionRequest struct {
	Decision    string `json:"decision" validate:"required,oneof=approve reject"`
	ApartmentID uint64 `json:"apartment_id" validate:"required_if=Decision approve"`
}

// Decide handles POST /v1/staff/reservations/:id/decision with body
// {"decision":"approve","apartment_id":101} or {"decision":"reject"}.
func (h *StaffReservationHandler) Decide(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body decisionRequest
	if ok, werr := bindAndValidate(c, &body); !ok {
		return werr
	}
	d, err := service.ParseDecision(body.Decision)
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.Approvals.Approve(c.Request().Context(), id, body.ApartmentID, d)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservation(*r))
}
