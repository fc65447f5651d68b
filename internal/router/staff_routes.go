package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
)

// RegisterStaff registers STAFF-scoped endpoints under /v1/staff.
func RegisterStaff(g *echo.Group, r *handler.StaffReservationHandler, inv *handler.InventoryHandler) {
	// ---- Approval queue ----
	g.GET("/reservations/pending", r.ListPending)
	g.POST("/reservations/:id/decision", r.Decide)

	// ---- Apartments ----
	g.GET("/apartments", inv.ListApartments)
	g.POST("/apartments", inv.CreateApartment)
	g.PUT("/apartments/:id", inv.UpdateApartment)
	g.PATCH("/apartments/:id/active", inv.SetActive)
}
