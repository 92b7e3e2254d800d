// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the sessiongate HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Validate the signing secret and build the token codec.
//  4. Select the credential backend (static pair or PostgreSQL accounts).
//  5. Connect to Redis for login throttling when configured.
//  6. Wire the session gate and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/sessiongate/internal/api"
	"github.com/taibuivan/sessiongate/internal/auth"
	"github.com/taibuivan/sessiongate/internal/home"
	"github.com/taibuivan/sessiongate/internal/platform/config"
	"github.com/taibuivan/sessiongate/internal/platform/constants"
	"github.com/taibuivan/sessiongate/internal/platform/migration"
	pgstore "github.com/taibuivan/sessiongate/internal/platform/postgres"
	redisstore "github.com/taibuivan/sessiongate/internal/platform/redis"
	"github.com/taibuivan/sessiongate/internal/platform/sec"
	"github.com/taibuivan/sessiongate/internal/platform/view"
	"github.com/taibuivan/sessiongate/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	if err := run(log); err != nil {
		slog.Default().Error("service_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run wires and serves the application until shutdown. Deferred closes always
// run before main exits.
func run(log *slog.Logger) error {
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("credential_backend", cfg.CredentialBackend),
		slog.Duration("session_max_age", cfg.SessionMaxAge),
	)

	// Bound dependency connections so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Token Codec ────────────────────────────────────────────────────
	secret, err := sec.NewSecret(cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("validate session secret: %w", err)
	}
	cfg.SessionSecret = ""

	codec, err := sec.NewTokenCodec(secret, sec.TokenOptions{
		Label:     constants.SessionTokenLabel,
		MaxAge:    cfg.SessionMaxAge,
		MaxLength: cfg.SessionTokenMaxLength,
	})
	if err != nil {
		return fmt.Errorf("initialize token codec: %w", err)
	}
	log.Info("token_codec_ready", slog.String("audience", constants.SessionTokenLabel))

	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return fmt.Errorf("parse trusted proxies: %w", err)
	}

	// ── 4. Credential Backend ─────────────────────────────────────────────
	var (
		authenticator session.Authenticator
		health        api.HealthDependencies
	)

	if cfg.UsesPostgres() {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		migrations := migration.Source(cfg.MigrationPath, auth.Migrations())
		if err := migration.RunUp(cfg.DatabaseURL, migrations, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		service, err := auth.NewService(auth.NewAccountRepository(pool))
		if err != nil {
			return fmt.Errorf("initialize account service: %w", err)
		}

		authenticator = service
		health.CheckDatabase = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
	} else {
		if cfg.UsesDemoCredentials() {
			log.Warn("static_backend_using_demo_credentials")
		}
		static, err := auth.NewStaticAuthenticator(cfg.DemoUser, cfg.DemoPassword)
		if err != nil {
			return fmt.Errorf("initialize static credentials: %w", err)
		}
		authenticator = static
	}

	// ── 5. Login Throttling ───────────────────────────────────────────────
	var limiter auth.AttemptLimiter = auth.NopAttemptLimiter{}

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		redisLimiter, err := auth.NewRedisAttemptLimiter(rdb, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow)
		if err != nil {
			return fmt.Errorf("initialize login limiter: %w", err)
		}

		limiter = redisLimiter
		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	// ── 6. Session Gate & Handlers ────────────────────────────────────────
	gate, err := session.NewGate(authenticator, codec, session.Options{
		Cookie: session.CookieOptions{
			Name:   cfg.SessionCookieName,
			Path:   constants.SessionCookiePath,
			Secure: cfg.CookieSecure(),
		},
		Observe: func(ctx context.Context, from, to session.State) {
			log.DebugContext(ctx, "session_transition",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	if err != nil {
		return fmt.Errorf("initialize session gate: %w", err)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}

	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg.ServerPort, log, trustedProxies, gate, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(gate, limiter, renderer),
		Home:      home.NewHandler(renderer),
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("serve http: %w", err)
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped cleanly")
	return nil
}

// newLogger builds the JSON logger with the app attribute on every record.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}
