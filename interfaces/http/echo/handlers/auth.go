package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/interfaces/http/echo/middleware"
	"github.com/octabyte/zip-client/models"
	otellogger "github.com/octabyte/zip-client/otel/logger"
	"github.com/octabyte/zip-client/utils/logger"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

func (h *Handler) Welcome(c echo.Context) error {
	return c.Render(http.StatusOK, "welcome", nil)
}

func (h *Handler) ShowLogin(c echo.Context) error {
	return c.Render(http.StatusOK, "auth/login", echo.Map{"Email": ""})
}

func (h *Handler) Login(c echo.Context) error {
	var creds models.Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	if err := c.Validate(&creds); err != nil {
		return c.Render(http.StatusUnprocessableEntity, "auth/login", echo.Map{
			"Email":  creds.Email,
			"Errors": fieldErrors(err),
		})
	}

	// The ticket goes into a fresh session; the guest id is dropped on success.
	ctx := c.Request().Context()
	guestSid := middleware.SessionID(c)
	sid := uuid.NewString()

	if ticket := h.auth.Login(ctx, sid, creds); ticket == nil {
		return c.Render(http.StatusUnauthorized, "auth/login", echo.Map{
			"Email":  creds.Email,
			"Errors": map[string]string{"email": "Invalid email or password."},
		})
	}

	if err := h.store.Clear(ctx, guestSid); err != nil {
		otellogger.ErrorCtx(ctx, "dropping guest session", err, logger.Session(guestSid))
	}
	middleware.RenewSession(c, sid)

	return h.redirectWith(c, DashboardPath, enums.FlashStatus, "Logged in successfully!")
}

func (h *Handler) Logout(c echo.Context) error {
	h.auth.Logout(c.Request().Context(), middleware.SessionID(c))
	return h.redirectWith(c, LoginPath, enums.FlashStatus, "Logged out successfully!")
}

func (h *Handler) Dashboard(c echo.Context) error {
	user := h.auth.CurrentUser(c.Request().Context(), middleware.SessionID(c))
	if user == nil {
		return c.Redirect(http.StatusFound, LoginPath)
	}
	return c.Render(http.StatusOK, "dashboard", echo.Map{"User": user})
}
