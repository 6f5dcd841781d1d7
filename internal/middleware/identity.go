package middleware

import "github.com/labstack/echo/v4"

// UserID returns the authenticated user id, or false for anonymous requests.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated role or "".
func Role(c echo.Context) string {
	r, _ := c.Get(CtxRole).(string)
	return r
}
