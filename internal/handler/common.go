package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/lock"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/service"
)

// getUserID returns the authenticated user id placed in the context by
// the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errors.New("invalid user_id in context")
	}
	return id, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// bindAndValidate binds the request body into dst and runs the echo
// validator.  On failure it has already written a 400 response and
// returns false.
func bindAndValidate(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(dst); err != nil {
		body := echo.Map{"error": "validation failed"}
		if field, constraint, ok := firstViolation(err); ok {
			body["field"] = field
			body["constraint"] = constraint
		}
		return false, c.JSON(http.StatusBadRequest, body)
	}
	return true, nil
}

// parseDate parses a YYYY-MM-DD field, writing a 400 on failure.
func parseDate(c echo.Context, field, raw string) (time.Time, bool, error) {
	t, err := model.ParseDay(raw)
	if err != nil {
		return time.Time{}, false, c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid date", "field": field, "constraint": "format=" + model.DateLayout,
		})
	}
	return t, true, nil
}

// writeError translates service errors into HTTP responses.
func writeError(c echo.Context, err error) error {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, service.ErrReservationNotFound),
		errors.Is(err, service.ErrApartmentNotFound),
		errors.Is(err, service.ErrClassNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "hint": "retry with another apartment"})
	case errors.Is(err, service.ErrNotPending),
		errors.Is(err, service.ErrNoAvailability),
		errors.Is(err, service.ErrApartmentInUse),
		errors.Is(err, service.ErrApartmentNumberTaken):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrApartmentInactive),
		errors.Is(err, service.ErrClassMismatch):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrStoreUnavailable),
		errors.Is(err, lock.ErrNotAcquired):
		log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
		status, msg = http.StatusServiceUnavailable, "service temporarily unavailable"
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		if status == http.StatusInternalServerError {
			status = http.StatusUnprocessableEntity
		}
		return c.JSON(status, echo.Map{"error": verr.Err.Error(), "field": verr.Field, "constraint": verr.Constraint})
	}
	if status == http.StatusInternalServerError {
		log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, echo.Map{"error": msg})
}
