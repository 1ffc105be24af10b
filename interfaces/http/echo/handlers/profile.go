package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/interfaces/http/echo/middleware"
)

const ProfileUpdated = "profile-updated"

func (h *Handler) ShowProfile(c echo.Context) error {
	user := h.auth.CurrentUser(c.Request().Context(), middleware.SessionID(c))
	return c.Render(http.StatusOK, "profile", echo.Map{"User": user})
}

// UpdateProfile has no remote counterpart; it only acknowledges the form.
func (h *Handler) UpdateProfile(c echo.Context) error {
	return h.redirectWith(c, "/profile", enums.FlashStatus, ProfileUpdated)
}

// DeleteProfile ends the session.
func (h *Handler) DeleteProfile(c echo.Context) error {
	h.auth.Logout(c.Request().Context(), middleware.SessionID(c))
	return h.redirectWith(c, "/", enums.FlashStatus, "Account deleted successfully!")
}
