// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// RegisterRoutes registers routes that need no authentication: the health
// check and the browser page.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/", handler.Page)
}

// RegisterAuth registers the token endpoints under /v1/auth and the
// protected /v1/me.  loginLimit guards password guessing.  Registration
// is open to editors only.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, loginLimit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login, loginLimit)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleEditor, model.RoleViewer),
	)
	auth.GET("/me", a.Me)
	auth.POST("/auth/register", a.Register, middleware.RequireRole(model.RoleEditor))
}
