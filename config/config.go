// Package config loads the process configuration. Sources are layered, later
// ones winning: built-in defaults, an optional YAML file, API_BASE_URL,
// ZIP_* environment variables and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/octabyte/zip-client/api"
	"github.com/octabyte/zip-client/db/redis"
	"github.com/octabyte/zip-client/otel"
	"github.com/octabyte/zip-client/utils/logger"
)

const (
	EnvPrefix      = "ZIP_"
	BareAPIBaseURL = "API_BASE_URL"

	SessionDriverRedis  = "redis"
	SessionDriverMemory = "memory"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	APIBaseURL     string        `koanf:"api_base_url" validate:"required,url"`
	APITimeout     time.Duration `koanf:"api_timeout" validate:"gte=0"`
	ListenAddr     string        `koanf:"listen_addr" validate:"required"`
	SessionDriver  string        `koanf:"session_driver" validate:"oneof=redis memory"`
	SessionCookie  string        `koanf:"session_cookie" validate:"required"`
	SessionTTL     time.Duration `koanf:"session_ttl" validate:"gt=0"`
	CookieSecure   bool          `koanf:"cookie_secure"`
	RedisAddr      string        `koanf:"redis_addr" validate:"required_if=SessionDriver redis"`
	RedisPassword  string        `koanf:"redis_password"`
	RedisDB        int           `koanf:"redis_db" validate:"gte=0"`
	LogLevel       string        `koanf:"log_level"`
	Env            string        `koanf:"env"`
	ServiceName    string        `koanf:"service_name" validate:"required"`
	OtelEnabled    bool          `koanf:"otel_enabled"`
	OtelEndpoint   string        `koanf:"otel_endpoint" validate:"required_if=OtelEnabled true"`
	OtelSampleRate float64       `koanf:"otel_sample_rate" validate:"gte=0,lte=1"`
	CSRFEnabled    bool          `koanf:"csrf_enabled"`
	Timezone       string        `koanf:"timezone" validate:"required,timezone"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"api_base_url":     "http://localhost:8000/api",
		"api_timeout":      "30s",
		"listen_addr":      ":8080",
		"session_driver":   SessionDriverRedis,
		"session_cookie":   "zip_session",
		"session_ttl":      "2h",
		"cookie_secure":    false,
		"redis_addr":       "localhost:6379",
		"redis_password":   "",
		"redis_db":         0,
		"log_level":        "info",
		"env":              "production",
		"service_name":     "zip-client",
		"otel_enabled":     false,
		"otel_endpoint":    "",
		"otel_sample_rate": 1.0,
		"csrf_enabled":     true,
		"timezone":         "UTC",
	}
}

// RegisterFlags adds a flag per overridable key. Flag names use dashes.
func RegisterFlags(fs *pflag.FlagSet) {
	d := defaults()
	fs.String("api-base-url", d["api_base_url"].(string), "base URL of the zip code REST API")
	fs.Duration("api-timeout", 30*time.Second, "timeout for remote API calls")
	fs.String("listen-addr", d["listen_addr"].(string), "address the web server listens on")
	fs.String("session-driver", d["session_driver"].(string), "session store: redis or memory")
	fs.Duration("session-ttl", 2*time.Hour, "idle lifetime of a session")
	fs.String("redis-addr", d["redis_addr"].(string), "redis host:port")
	fs.String("log-level", d["log_level"].(string), "log level")
	fs.String("env", d["env"].(string), "deployment environment")
	fs.Bool("otel-enabled", false, "export traces and metrics over OTLP")
	fs.String("timezone", d["timezone"].(string), "IANA zone used for export timestamps")
}

// Load builds the configuration. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(BareAPIBaseURL, ".", func(s string) string {
		if s == BareAPIBaseURL {
			return "api_base_url"
		}
		return ""
	}), nil); err != nil {
		return nil, fmt.Errorf("loading %s: %w", BareAPIBaseURL, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	cfg.SessionDriver = strings.ToLower(strings.TrimSpace(cfg.SessionDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) API() api.Config {
	return api.Config{BaseURL: c.APIBaseURL, Timeout: c.APITimeout, ServiceName: c.ServiceName}
}

func (c *Config) Redis() redis.Config {
	return redis.Config{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB, DialTimeout: 5 * time.Second}
}

func (c *Config) Logger() *logger.Config {
	return &logger.Config{Level: c.LogLevel, Env: c.Env, ServiceName: c.ServiceName}
}

func (c *Config) Otel(version string) otel.OtelConfig {
	return otel.OtelConfig{
		Enabled:     c.OtelEnabled,
		Endpoint:    c.OtelEndpoint,
		ServiceName: c.ServiceName,
		Version:     version,
		Environment: c.Env,
		SampleRate:  c.OtelSampleRate,
		Headers:     otelHeaders(),
	}
}

// otelHeaders reads OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func otelHeaders() map[string]string {
	raw := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")
	if raw == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if ok && strings.TrimSpace(k) != "" {
			headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return headers
}
