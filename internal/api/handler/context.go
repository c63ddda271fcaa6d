package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetconnect/messaging-system/internal/api/middleware"
)

// ctxActorID extracts the user id injected by the Auth middleware. An empty
// value means the middleware did not run; reject before any service call.
func ctxActorID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
