package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/utils/reqctx"
)

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

func (cfg SessionConfig) cookieName() string {
	if cfg.CookieName == "" {
		return DefaultSessionCookie
	}
	return cfg.CookieName
}

// SetSessionInContext makes sure every request carries a session id. Visitors
// without a valid session cookie are issued a fresh one.
func SetSessionInContext(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(sessionConfigKey, cfg)

			var sid string
			if cookie, err := c.Cookie(cfg.cookieName()); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sid = cookie.Value
				}
			}

			if sid == "" {
				RenewSession(c, uuid.NewString())
			} else {
				bindSession(c, sid)
			}
			return next(c)
		}
	}
}

// RenewSession switches the request to sid and sends the session cookie with
// a full lifetime.
func RenewSession(c echo.Context, sid string) {
	cfg, _ := c.Get(sessionConfigKey).(SessionConfig)

	cookie := &http.Cookie{
		Name:     cfg.cookieName(),
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.TTL > 0 {
		cookie.MaxAge = int(cfg.TTL.Seconds())
	}
	c.SetCookie(cookie)

	bindSession(c, sid)
}

func bindSession(c echo.Context, sid string) {
	c.Set(RequestSessionKey, sid)
	c.SetRequest(c.Request().WithContext(reqctx.WithSessionID(c.Request().Context(), sid)))
}

// SessionID returns the id set by SetSessionInContext, or "".
func SessionID(c echo.Context) string {
	sid, _ := c.Get(RequestSessionKey).(string)
	return sid
}
