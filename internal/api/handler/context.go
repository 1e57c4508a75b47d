package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// sessionUserID extracts the authenticated user ID injected by the Session
// middleware. Absence means the middleware did not run on this route.
func sessionUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
