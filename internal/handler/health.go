package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness only; it does not touch the sheet.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
