package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/service"
)

// Inventory manages apartment classes and apartments.
type Inventory interface {
	Classes(ctx context.Context) ([]model.ApartmentClass, error)
	Class(ctx context.Context, id uint64) (*model.ApartmentClass, error)
	Apartments(ctx context.Context) ([]model.Apartment, error)
	AddApartment(ctx context.Context, in service.ApartmentInput) (*model.Apartment, error)
	UpdateApartment(ctx context.Context, id uint64, in service.ApartmentInput) (*model.Apartment, error)
	SetApartmentActive(ctx context.Context, id uint64, active bool) error
}

// InventoryHandler serves public class browsing and staff apartment
// management.
type InventoryHandler struct {
	Inventory Inventory
}

func NewInventoryHandler(inv Inventory) *InventoryHandler {
	if inv == nil {
		panic("nil inventory passed to NewInventoryHandler")
	}
	return &InventoryHandler{Inventory: inv}
}

// ListClasses handles GET /v1/classes.
func (h *InventoryHandler) ListClasses(c echo.Context) error {
	list, err := h.Inventory.Classes(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]classResponse, 0, len(list))
	for _, cl := range list {
		out = append(out, toClass(cl))
	}
	return c.JSON(http.StatusOK, echo.Map{"classes": out})
}

// GetClass handles GET /v1/classes/:id.
func (h *InventoryHandler) GetClass(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	cl, err := h.Inventory.Class(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toClass(*cl))
}

// ListApartments handles GET /v1/staff/apartments.
func (h *InventoryHandler) ListApartments(c echo.Context) error {
	list, err := h.Inventory.Apartments(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"apartments": toApartments(list)})
}

type apartmentRequest struct {
	Number    string `json:"number" validate:"required,max=16"`
	Floor     int    `json:"floor" validate:"gte=0"`
	ClassType string `json:"class_type" validate:"required"`
}

func (r apartmentRequest) input() service.ApartmentInput {
	return service.ApartmentInput{Number: r.Number, Floor: r.Floor, ClassType: r.ClassType}
}

// CreateApartment handles POST /v1/staff/apartments.
func (h *InventoryHandler) CreateApartment(c echo.Context) error {
	var body apartmentRequest
	if ok, werr := bindAndValidate(c, &body); !ok {
		return werr
	}
	a, err := h.Inventory.AddApartment(c.Request().Context(), body.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toApartment(*a))
}

// UpdateApartment handles PUT /v1/staff/apartments/:id.
func (h *InventoryHandler) UpdateApartment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid apartment id"})
	}
	var body apartmentRequest
	if ok, werr := bindAndValidate(c, &body); !ok {
		return werr
	}
	a, err := h.Inventory.UpdateApartment(c.Request().Context(), id, body.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toApartment(*a))
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// SetActive handles PATCH /v1/staff/apartments/:id/active with body
// {"active": false}.  Apartments are never deleted.
func (h *InventoryHandler) SetActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid apartment id"})
	}
	var body activeRequest
	if ok, werr := bindAndValidate(c, &body); !ok {
		return werr
	}
	if err := h.Inventory.SetApartmentActive(c.Request().Context(), id, *body.Active); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": *body.Active})
}
