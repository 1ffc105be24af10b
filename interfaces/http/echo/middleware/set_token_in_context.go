package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/utils/reqctx"
)

// SetTokenInContext loads the session's API token onto the request context,
// where the API client picks it up for the Authorization header. Sessions
// holding a token are kept alive: the store expiry and the cookie lifetime
// both restart on every request.
func SetTokenInContext(sessions Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			sid := SessionID(c)

			if token := sessions.Token(ctx, sid); token != "" {
				sessions.Touch(ctx, sid)
				RenewSession(c, sid)
				c.SetRequest(c.Request().WithContext(reqctx.WithToken(c.Request().Context(), token)))
			}
			return next(c)
		}
	}
}
