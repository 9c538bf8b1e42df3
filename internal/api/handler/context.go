package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// ContextKeyUserID is the echo context key the gatekeeper middleware sets.
const ContextKeyUserID = "user_id"

// ctxUserID returns the authenticated user id. A missing id means the
// route was mounted without the gatekeeper.
func ctxUserID(c echo.Context) (string, error) {
	if id, _ := c.Get(ContextKeyUserID).(string); id != "" {
		return id, nil
	}
	if id := domain.UserIDFromContext(c.Request().Context()); id != "" {
		return id, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}
