// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/booking-backend/internal/action"
	"github.com/carterperez-dev/templates/booking-backend/internal/activity"
	"github.com/carterperez-dev/templates/booking-backend/internal/auth"
	"github.com/carterperez-dev/templates/booking-backend/internal/booking"
	"github.com/carterperez-dev/templates/booking-backend/internal/config"
	"github.com/carterperez-dev/templates/booking-backend/internal/core"
	"github.com/carterperez-dev/templates/booking-backend/internal/health"
	"github.com/carterperez-dev/templates/booking-backend/internal/middleware"
	"github.com/carterperez-dev/templates/booking-backend/internal/otp"
	"github.com/carterperez-dev/templates/booking-backend/internal/server"
	"github.com/carterperez-dev/templates/booking-backend/internal/session"
	"github.com/carterperez-dev/templates/booking-backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
	apiPrefix  = "/v1"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	hasher, err := core.NewPasswordHasher(cfg.Password.BcryptCost)
	if err != nil {
		return err
	}

	dispatcher := core.NewDispatcher(cfg.Dispatch.Timeout, logger)
	recorder := activity.NewRecorder(activity.NewRepository(db.DB), dispatcher)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, hasher)
	userHandler := user.NewHandler(userSvc)

	otpSvc := otp.NewService(
		otp.NewRepository(db.DB),
		db,
		func(tx core.DBTX) (otp.Repository, otp.VerificationMarker) {
			return otp.NewRepository(tx), user.NewRepository(tx)
		},
		otp.NewThrottle(
			redis.Client,
			cfg.OTP.MaxAttempts,
			cfg.OTP.TTL,
			cfg.OTP.ResendWindow,
		),
		cfg.OTP,
	)

	sessionSvc := session.NewService(session.NewRepository(db.DB), cfg.Session.TTL)

	authSvc := auth.NewService(userSvc, otpSvc, sessionSvc, recorder)
	authHandler := auth.NewHandler(authSvc, auth.HandlerConfig{
		ExposeOTP:    !cfg.IsProduction(),
		SecureCookie: cfg.IsProduction(),
	})

	bookingSvc := booking.NewService(booking.NewRepository(db.DB), recorder)
	bookingHandler := booking.NewHandler(bookingSvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RealIP(cfg.Server.TrustedProxies))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
		),
		KeyFunc:  middleware.KeyByIPAndPath,
		FailOpen: true,
	})
	authenticator := middleware.Authenticator(sessionSvc)

	router.Route(apiPrefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Handler)
			authHandler.RegisterRoutes(r, authenticator)
		})

		userHandler.RegisterRoutes(r, authenticator)
		bookingHandler.RegisterRoutes(r, authenticator)

		r.Handle("/api", action.NewForwarder(router, apiPrefix))
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	dispatcher.Wait()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
