package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter metric.Meter

	// Inbound HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Remote API metrics
	apiCallsTotal   metric.Int64Counter
	apiCallDuration metric.Float64Histogram

	// Session metrics
	loginsTotal metric.Int64Counter
)

// Init creates the instruments on the global meter provider. Recording
// before Init is a no-op.
func Init(serviceName string) error {
	meter = otel.Meter(serviceName)

	var err error

	httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	apiCallsTotal, err = meter.Int64Counter(
		"api_calls_total",
		metric.WithDescription("Total number of calls to the remote API"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create api_calls_total counter: %w", err)
	}

	apiCallDuration, err = meter.Float64Histogram(
		"api_call_duration_seconds",
		metric.WithDescription("Remote API call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create api_call_duration_seconds histogram: %w", err)
	}

	loginsTotal, err = meter.Int64Counter(
		"logins_total",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create logins_total counter: %w", err)
	}

	return nil
}

// RecordHTTPRequest records an inbound HTTP request
func RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	)

	if httpRequestsTotal != nil {
		httpRequestsTotal.Add(ctx, 1, attrs)
	}
	if httpRequestDuration != nil {
		httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordAPICall records one call to the remote API
func RecordAPICall(ctx context.Context, operation string, statusCode int, duration time.Duration, success bool) {
	attrs := metric.WithAttributes(
		attribute.String("api.operation", operation),
		attribute.Int("http.status_code", statusCode),
		attribute.Bool("success", success),
	)

	if apiCallsTotal != nil {
		apiCallsTotal.Add(ctx, 1, attrs)
	}
	if apiCallDuration != nil {
		apiCallDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

func RecordLogin(ctx context.Context, success bool) {
	if loginsTotal != nil {
		loginsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}
