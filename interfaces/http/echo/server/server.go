// Package server assembles the echo application: middleware chain, renderer,
// validator and routes.
package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octabyte/zip-client/auth"
	"github.com/octabyte/zip-client/interfaces/http/echo/handlers"
	"github.com/octabyte/zip-client/interfaces/http/echo/middleware"
	"github.com/octabyte/zip-client/interfaces/http/echo/views"
	otelecho "github.com/octabyte/zip-client/otel/echo"
	"github.com/octabyte/zip-client/session"
	"github.com/octabyte/zip-client/utils/logger"
)

const (
	HealthPath    = "/healthz"
	csrfFormField = "_token"
	methodField   = "_method"
)

type Options struct {
	ServiceName   string
	SessionCookie string
	SessionTTL    time.Duration
	CookieSecure  bool
	CSRFEnabled   bool
	OtelEnabled   bool
	Timezone      string
}

func New(opts Options, authService *auth.Service, zipAPI handlers.ZipAPI, store session.Store) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	h := handlers.New(authService, zipAPI, store).InTimezone(opts.Timezone)

	renderer, err := views.New(h)
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handlers.NewFormValidator()
	e.HTTPErrorHandler = errorHandler

	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm(methodField),
	}))

	e.Use(echomw.Recover())
	e.Use(requestLogger())
	if opts.OtelEnabled {
		e.Use(otelecho.Middleware(opts.ServiceName, isHealthCheck))
	}

	e.Use(middleware.SetSessionInContext(middleware.SessionConfig{
		CookieName: opts.SessionCookie,
		TTL:        opts.SessionTTL,
		Secure:     opts.CookieSecure,
	}))
	e.Use(middleware.SetTokenInContext(authService))
	e.Use(middleware.SetAuthInContext(authService))

	if opts.CSRFEnabled {
		e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
			Skipper:        isHealthCheck,
			TokenLookup:    "form:" + csrfFormField,
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   opts.CookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	registerRoutes(e, h, authService)
	return e, nil
}

func registerRoutes(e *echo.Echo, h *handlers.Handler, sessions middleware.Sessions) {
	requireAuth := middleware.RequireAuth(sessions, handlers.LoginPath)
	guest := middleware.RedirectIfAuthenticated(sessions, handlers.DashboardPath)

	e.GET("/", h.Welcome)
	e.GET(HealthPath, h.Health)

	e.GET("/login", h.ShowLogin, guest)
	e.POST("/login", h.Login, guest)
	e.GET("/dashboard", h.Dashboard, requireAuth)
	e.POST("/logout", h.Logout, requireAuth)

	e.GET("/profile", h.ShowProfile, requireAuth)
	e.PATCH("/profile", h.UpdateProfile, requireAuth)
	e.DELETE("/profile", h.DeleteProfile, requireAuth)

	e.GET("/counties", h.ListCounties)
	e.GET("/counties/create", h.CreateCountyForm, requireAuth)
	e.POST("/counties", h.StoreCounty, requireAuth)
	e.GET("/counties/:countyId", h.ShowCounty)
	e.GET("/counties/:countyId/edit", h.EditCounty, requireAuth)
	e.PUT("/counties/:countyId", h.UpdateCounty, requireAuth)
	e.PATCH("/counties/:countyId", h.UpdateCounty, requireAuth)
	e.DELETE("/counties/:countyId", h.DeleteCounty, requireAuth)

	e.GET("/counties/:countyId/cities", h.ListCities)
	e.GET("/counties/:countyId/cities/create", h.CreateCityForm, requireAuth)
	e.POST("/counties/:countyId/cities", h.StoreCity, requireAuth)
	e.GET("/counties/:countyId/cities/:cityId", h.ShowCity)
	e.GET("/counties/:countyId/cities/:cityId/edit", h.EditCity, requireAuth)
	e.PUT("/counties/:countyId/cities/:cityId", h.UpdateCity, requireAuth)
	e.DELETE("/counties/:countyId/cities/:cityId", h.DeleteCity, requireAuth)

	e.GET("/cities/filter", h.FilterPage)
	e.GET("/cities/filter/letters/:countyId", h.FilterLetters)
	e.GET("/cities/filter/:countyId/:letter", h.FilterResults)

	e.GET("/export/counties/csv", h.ExportCountiesCSV)
	e.GET("/export/counties/pdf", h.ExportCountiesPDF)
	e.GET("/export/cities/:countyId/csv", h.ExportCitiesCSV)
	e.GET("/export/cities/:countyId/pdf", h.ExportCitiesPDF)
}

func isHealthCheck(c echo.Context) bool {
	return c.Request().URL.Path == HealthPath
}

func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		Skipper:     isHealthCheck,
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				logger.Session(middleware.SessionID(c)),
			}
			if v.Error != nil {
				logger.LogWarn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.LogInfo("request", fields...)
			return nil
		},
	})
}

// errorHandler renders the error page, or JSON for clients that ask for it.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		_ = c.JSON(code, echo.Map{"error": message})
		return
	}

	if renderErr := c.Render(code, "error", echo.Map{"Code": code, "Message": message}); renderErr != nil {
		_ = c.String(code, message)
	}
}
