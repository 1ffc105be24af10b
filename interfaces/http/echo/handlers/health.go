package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	otellogger "github.com/octabyte/zip-client/otel/logger"
)

// Health reports whether the session store answers.
func (h *Handler) Health(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		otellogger.ErrorCtx(c.Request().Context(), "session store ping failed", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
