package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys set by middleware.Auth.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// ctxUserID returns the authenticated user's ID. A missing value means the
// route was registered without the Auth middleware, which is answered as 401.
func ctxUserID(c echo.Context) (int64, error) {
	id, ok := c.Get(CtxUserID).(int64)
	if !ok || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
