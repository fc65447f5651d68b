package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
)

// RegisterGuest registers GUEST-scoped reservation endpoints.  g must
// already carry JWT and role middleware.
func RegisterGuest(g *echo.Group, h *handler.GuestHandler) {
	g.POST("/reservations", h.Create)
	g.GET("/my-reservations", h.List)
	g.DELETE("/reservations/:id", h.Cancel)
}
