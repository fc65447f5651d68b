package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// UserFinder resolves the account behind a token subject.
type UserFinder interface {
	FindByID(ctx context.Context, id uint64) (*model.User, error)
}

// Me handles GET /v1/me.  It returns the caller's profile, or only the
// token identity when the account row is missing.
func Me(users UserFinder) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := getUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		role := middleware.Role(c)
		u, err := users.FindByID(c.Request().Context(), uid)
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				return c.JSON(http.StatusOK, echo.Map{"id": uid, "role": role})
			}
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service temporarily unavailable"})
		}
		if !u.IsActive {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"id":         u.ID,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"phone":      u.Phone,
			"role":       role,
		})
	}
}
