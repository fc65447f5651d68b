package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health    echo.HandlerFunc
	Me        echo.HandlerFunc
	Guest     *handler.GuestHandler
	Staff     *handler.StaffReservationHandler
	Inventory *handler.InventoryHandler
}

// Register mounts every route on e.  jwtSecret verifies bearer tokens on
// the guest, staff and /v1/me routes; extra middleware (rate limiting)
// is applied to all /v1 routes.
func Register(e *echo.Echo, h Handlers, jwtSecret string, extra ...echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1", extra...)
	RegisterPublic(v1, h.Inventory)

	auth := middleware.JWTAuth(jwtSecret)
	v1.GET("/me", h.Me, auth, middleware.RequireRole(model.RoleGuest, model.RoleStaff))
	RegisterGuest(v1.Group("", auth, middleware.RequireRole(model.RoleGuest)), h.Guest)
	RegisterStaff(v1.Group("/staff", auth, middleware.RequireRole(model.RoleStaff)), h.Staff, h.Inventory)
}

// RegisterPublic registers unauthenticated class browsing.
func RegisterPublic(g *echo.Group, inv *handler.InventoryHandler) {
	g.GET("/classes", inv.ListClasses)
	g.GET("/classes/:id", inv.GetClass)
}
