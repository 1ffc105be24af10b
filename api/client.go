// Package api is the HTTP client for the remote zip code REST API.
//
// Every request carries "Authorization: Bearer <token>" when the request
// context holds a token (see reqctx.WithToken) and goes out unauthenticated
// otherwise. Responses wrap their payload under a named top-level key which
// is extracted with gjson.
package api

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/octabyte/zip-client/otel"
	otellogger "github.com/octabyte/zip-client/otel/logger"
	"github.com/octabyte/zip-client/otel/metrics"
	"github.com/octabyte/zip-client/utils/reqctx"
)

const (
	defaultTimeout    = 30 * time.Second
	maxMessageLength  = 200
	defaultServiceTag = "zip-client"
)

type Config struct {
	BaseURL     string        `validate:"required,url"`
	Timeout     time.Duration `validate:"gte=0"`
	ServiceName string
}

func (cfg *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}

type Client struct {
	rc          *resty.Client
	baseURL     string
	serviceName string
}

func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid api configuration: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceTag
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		OnBeforeRequest(withBearerToken).
		OnBeforeRequest(otel.WithTraceHeaders)

	return &Client{rc: rc, baseURL: baseURL, serviceName: serviceName}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// withBearerToken copies the token from the request context onto the request.
func withBearerToken(_ *resty.Client, req *resty.Request) error {
	if token := reqctx.TokenFromContext(req.Context()); token != "" {
		req.SetAuthToken(token)
	}
	return nil
}

// call is one request against the remote API.
type call struct {
	operation string
	method    string
	path      string
	body      interface{}
}

func (cl call) fail(c *Client, status int, message string, err error) *Error {
	return &Error{
		Operation:  cl.operation,
		Method:     cl.method,
		Endpoint:   c.baseURL + cl.path,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// do executes the call and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	ctx, finish := otel.StartHTTPSpan(ctx, c.serviceName, cl.operation, cl.method, c.baseURL, cl.path)
	start := time.Now()

	req := c.rc.R().SetContext(ctx)
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}

	resp, err := req.Execute(cl.method, cl.path)

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}

	var callErr *Error
	switch {
	case err != nil:
		callErr = cl.fail(c, 0, err.Error(), err)
	case !resp.IsSuccess():
		callErr = cl.fail(c, status, responseMessage(resp.Body()), nil)
	}

	if callErr != nil {
		finish(status, callErr)
		metrics.RecordAPICall(ctx, cl.operation, status, time.Since(start), false)
		return nil, callErr
	}

	finish(status, nil)
	metrics.RecordAPICall(ctx, cl.operation, status, time.Since(start), true)
	otellogger.DebugCtx(ctx, "api call", zap.String("operation", cl.operation), zap.Int("status", status))
	return resp.Body(), nil
}

// responseMessage picks a human readable reason out of an error body.
func responseMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"message", "error", "errors"} {
			if v := gjson.GetBytes(body, key); v.Exists() && v.String() != "" {
				return truncate(v.String())
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response body"
	}
	return truncate(msg)
}

// truncate caps s at maxMessageLength bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= maxMessageLength {
		return s
	}
	cut := maxMessageLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// decodeKey unmarshals the value under key into out. A missing or null key
// leaves out untouched unless required is set.
func (c *Client) decodeKey(cl call, body []byte, key string, out interface{}, required bool) error {
	if !gjson.ValidBytes(body) {
		return cl.fail(c, 0, "invalid JSON body", ErrMalformedResponse)
	}

	res := gjson.GetBytes(body, key)
	if !res.Exists() || res.Type == gjson.Null {
		if required {
			return cl.fail(c, 0, fmt.Sprintf("missing %q in response", key), ErrMalformedResponse)
		}
		return nil
	}

	if err := json.Unmarshal([]byte(res.Raw), out); err != nil {
		return cl.fail(c, 0, fmt.Sprintf("decoding %q: %v", key, err), fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return nil
}
