package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	otellogger "github.com/octabyte/zip-client/otel/logger"
)

// RequireAuth redirects visitors without both a token and a user in their
// session to loginPath. It never calls the remote API.
func RequireAuth(sessions Sessions, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sessions.IsAuthenticated(c.Request().Context(), SessionID(c)) {
				otellogger.DebugCtx(c.Request().Context(), "unauthenticated request redirected")
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}

// RedirectIfAuthenticated keeps signed-in users off guest-only pages.
func RedirectIfAuthenticated(sessions Sessions, homePath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sessions.IsAuthenticated(c.Request().Context(), SessionID(c)) {
				return c.Redirect(http.StatusFound, homePath)
			}
			return next(c)
		}
	}
}
