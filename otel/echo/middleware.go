package echo

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/zip-client/interfaces/http/echo/middleware"
	"github.com/octabyte/zip-client/models"
	"github.com/octabyte/zip-client/otel/metrics"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Middleware returns an Echo middleware that traces each request and records
// request metrics. Requests for which skipper returns true are passed through.
func Middleware(serviceName string, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	baseMiddleware := otelecho.Middleware(serviceName)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		traced := baseMiddleware(func(c echo.Context) error {
			err := next(c)
			annotate(c, err)
			return err
		})

		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			start := time.Now()
			err := traced(c)
			metrics.RecordHTTPRequest(c.Request().Context(), c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return err
		}
	}
}

// annotate runs inside the otelecho span so the request context carries it.
func annotate(c echo.Context, err error) {
	span := trace.SpanFromContext(c.Request().Context())
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.String("http.route", c.Path()))

	if view, ok := c.Get(middleware.AuthViewKey).(models.AuthView); ok {
		span.SetAttributes(attribute.Bool("user.authenticated", view.Check))
	}

	if err != nil {
		span.SetAttributes(attribute.String("error.message", err.Error()))
	}
}
