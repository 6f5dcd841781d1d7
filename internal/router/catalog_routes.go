package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// RegisterCatalog registers the movie endpoints.  Every route needs a valid
// JWT; writes and the audit log need the EDITOR role.  facetsCache fronts
// the facet lists only, and writeLimit guards the Sheets API quota.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, facetsCache, writeLimit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleEditor, model.RoleViewer),
	)
	g.GET("/movies", h.List)
	g.GET("/movies/facets", h.Facets, facetsCache)
	g.GET("/movies/random", h.Random)

	editor := middleware.RequireRole(model.RoleEditor)
	g.PATCH("/movies/seen", h.UpdateSeen, editor, writeLimit)
	g.GET("/edits", h.ListEdits, editor)
}
