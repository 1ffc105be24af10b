package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octabyte/zip-client/api"
	"github.com/octabyte/zip-client/auth"
	"github.com/octabyte/zip-client/config"
	"github.com/octabyte/zip-client/db/redis"
	"github.com/octabyte/zip-client/enums"
	"github.com/octabyte/zip-client/interfaces/http/echo/server"
	"github.com/octabyte/zip-client/otel"
	"github.com/octabyte/zip-client/otel/metrics"
	"github.com/octabyte/zip-client/session"
	"github.com/octabyte/zip-client/utils/logger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.Init(cfg.Logger()); err != nil {
		return err
	}
	defer logger.Sync()

	shutdownOtel, err := otel.InitOpenTelemetry(ctx, cfg.Otel(version))
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownOtel(shutdownCtx)
	}()
	if err := metrics.Init(cfg.ServiceName); err != nil {
		return err
	}

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := api.New(cfg.API())
	if err != nil {
		return err
	}

	e, err := server.New(server.Options{
		ServiceName:   cfg.ServiceName,
		SessionCookie: cfg.SessionCookie,
		SessionTTL:    cfg.SessionTTL,
		CookieSecure:  cfg.CookieSecure,
		CSRFEnabled:   cfg.CSRFEnabled,
		OtelEnabled:   cfg.OtelEnabled,
		Timezone:      cfg.Timezone,
	}, auth.NewService(client, store), client, store)
	if err != nil {
		return err
	}
	e.Logger.SetLevel(echoLogLevel(cfg.LogLevel))

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("web server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("api_base_url", client.BaseURL()),
			zap.String("session_driver", cfg.SessionDriver))
		errCh <- e.Start(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.LogInfo("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return shutdown(shutdownCtx, e)
}

func shutdown(ctx context.Context, e *echo.Echo) error {
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	return nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.SessionDriver {
	case config.SessionDriverMemory:
		logger.LogWarn("using in-memory sessions; they are lost on restart and not shared between replicas")
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	default:
		client, err := redis.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return session.NewRedisStore(client, cfg.SessionTTL), func() {
			if err := client.Close(); err != nil {
				logger.LogError("closing redis client", zap.Error(err))
			}
		}, nil
	}
}

// echoLogLevel maps the zap level name onto echo's gommon logger.
func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case enums.LogLevelDebug:
		return log.DEBUG
	case enums.LogLevelWarn, "warning":
		return log.WARN
	case enums.LogLevelError, "err", enums.LogLevelFatal, enums.LogLevelPanic, enums.LogLevelDPanic:
		return log.ERROR
	case enums.LogLevelOff:
		return log.OFF
	default:
		return log.INFO
	}
}
