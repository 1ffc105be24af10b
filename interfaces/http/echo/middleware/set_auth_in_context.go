package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/models"
)

// Sessions is the read side of the auth service, plus expiry refresh.
type Sessions interface {
	Token(ctx context.Context, sid string) string
	Touch(ctx context.Context, sid string)
	CurrentUser(ctx context.Context, sid string) models.UserProfile
	IsAuthenticated(ctx context.Context, sid string) bool
}

// SetAuthInContext exposes the auth state to templates under AuthViewKey.
func SetAuthInContext(sessions Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			sid := SessionID(c)

			view := models.AuthView{}
			if sessions.IsAuthenticated(ctx, sid) {
				view.Check = true
				view.User = sessions.CurrentUser(ctx, sid)
			}

			c.Set(AuthViewKey, view)
			return next(c)
		}
	}
}

func AuthView(c echo.Context) models.AuthView {
	view, _ := c.Get(AuthViewKey).(models.AuthView)
	return view
}
