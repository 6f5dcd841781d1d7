package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/web"
)

// Page serves the single-page browser UI.
func Page(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, web.IndexHTML)
}
