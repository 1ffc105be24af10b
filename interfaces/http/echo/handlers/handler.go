// Package handlers implements the web pages and downloads on top of the auth
// service and the remote API client.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octabyte/zip-client/api"
	"github.com/octabyte/zip-client/auth"
	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/interfaces/http/echo/middleware"
	"github.com/octabyte/zip-client/models"
	otellogger "github.com/octabyte/zip-client/otel/logger"
	"github.com/octabyte/zip-client/session"
	"github.com/octabyte/zip-client/utils"
	"github.com/octabyte/zip-client/utils/logger"
)

const unreachableMessage = "The zip code service could not be reached. Please try again."

// ZipAPI is the county and city surface of the remote API.
type ZipAPI interface {
	Counties(ctx context.Context) ([]models.County, error)
	CreateCounty(ctx context.Context, name string) (models.County, error)
	UpdateCounty(ctx context.Context, id int64, name string) (models.County, error)
	DeleteCounty(ctx context.Context, id int64) error
	Cities(ctx context.Context, countyID int64) ([]models.City, error)
	CreateCity(ctx context.Context, countyID int64, name, zipCode string) (models.City, error)
	UpdateCity(ctx context.Context, countyID, cityID int64, name, zipCode string) (models.City, error)
	DeleteCity(ctx context.Context, countyID, cityID int64) error
	CityLetters(ctx context.Context, countyID int64) ([]string, error)
	CitiesByLetter(ctx context.Context, countyID int64, letter string) ([]models.City, error)
}

type Handler struct {
	auth  *auth.Service
	api   ZipAPI
	store session.Store
	now   func() time.Time
}

func New(authService *auth.Service, zipAPI ZipAPI, store session.Store) *Handler {
	return &Handler{auth: authService, api: zipAPI, store: store, now: time.Now}
}

// InTimezone makes export timestamps use the named IANA zone. An empty or
// unknown zone keeps UTC.
func (h *Handler) InTimezone(zone string) *Handler {
	h.now = func() time.Time {
		return utils.FromUTCToTimezone(time.Now().UTC(), zone)
	}
	return h
}

// PullFlash returns and forgets the session's pending flash message.
func (h *Handler) PullFlash(c echo.Context) *models.Flash {
	sid := middleware.SessionID(c)
	if sid == "" {
		return nil
	}
	flash, err := session.PullFlash(c.Request().Context(), h.store, sid)
	if err != nil {
		otellogger.WarnCtx(c.Request().Context(), "reading flash message", logger.Session(sid), zap.Error(err))
		return nil
	}
	return flash
}

func (h *Handler) flash(c echo.Context, kind enums.FlashKind, message string) {
	sid := middleware.SessionID(c)
	if sid == "" {
		return
	}
	if err := session.PutFlash(c.Request().Context(), h.store, sid, models.Flash{Kind: kind, Message: message}); err != nil {
		otellogger.ErrorCtx(c.Request().Context(), "storing flash message", err, logger.Session(sid))
	}
}

func (h *Handler) redirectWith(c echo.Context, path string, kind enums.FlashKind, message string) error {
	h.flash(c, kind, message)
	return c.Redirect(http.StatusFound, path)
}

// apiFailure logs a failed remote call and sends the visitor back with an
// error flash.
func (h *Handler) apiFailure(c echo.Context, err error, fallback string) error {
	logAPIError(c.Request().Context(), err)
	return h.redirectWith(c, back(c, fallback), enums.FlashError, userMessage(err))
}

func logAPIError(ctx context.Context, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		otellogger.ErrorCtx(ctx, "remote API call failed", err, logger.Endpoint(apiErr.Method, apiErr.Endpoint), zap.Int("status", apiErr.StatusCode))
		return
	}
	otellogger.ErrorCtx(ctx, "remote API call failed", err)
}

// userMessage is the API's own reason for HTTP failures and a generic retry
// hint otherwise.
func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return apiErr.Message
	}
	return unreachableMessage
}

// back returns the same-site Referer, or fallback when there is none or it
// points at the current page.
func back(c echo.Context, fallback string) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" {
		return fallback
	}
	if ref.Host != "" && ref.Host != c.Request().Host {
		return fallback
	}
	if ref.Path == c.Request().URL.Path && c.Request().Method == http.MethodGet {
		return fallback
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return target
}

func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return id, nil
}
