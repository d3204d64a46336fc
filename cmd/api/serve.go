// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/praxis-app/praxis-api/internal/actionlog"
	"github.com/praxis-app/praxis-api/internal/activity"
	"github.com/praxis-app/praxis-api/internal/admin"
	"github.com/praxis-app/praxis-api/internal/assessment"
	"github.com/praxis-app/praxis-api/internal/auth"
	"github.com/praxis-app/praxis-api/internal/card"
	"github.com/praxis-app/praxis-api/internal/config"
	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/goal"
	"github.com/praxis-app/praxis-api/internal/health"
	"github.com/praxis-app/praxis-api/internal/metrics"
	"github.com/praxis-app/praxis-api/internal/middleware"
	"github.com/praxis-app/praxis-api/internal/profile"
	"github.com/praxis-app/praxis-api/internal/scheduler"
	"github.com/praxis-app/praxis-api/internal/server"
	"github.com/praxis-app/praxis-api/internal/social"
	"github.com/praxis-app/praxis-api/internal/user"
)

const (
	drainDelay = 5 * time.Second

	mutationRequests = 30
	mutationBurst    = 10
)

//nolint:funlen // bootstrap code is inherently verbose
func serve(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, logCloser := core.NewLogger(cfg.Log)
	defer logCloser.Close() //nolint:errcheck // flushed on exit
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"timezone", cfg.App.Timezone,
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

	realClock := clockwork.NewRealClock()

	issuer, err := auth.NewTokenIssuer(cfg.JWT, realClock)
	if err != nil {
		return err
	}
	logger.Info("token issuer initialized",
		"algorithm", "ES256",
		"key_id", issuer.KeyID(),
	)

	clock := activity.NewClock(realClock, cfg.App.Location())
	cache := core.NewCache(redis.Client, cfg.Cache.Prefix, cfg.Cache.TTL)

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		issuer,
		userSvc,
		redis.Client,
		realClock,
	)
	authHandler := auth.NewHandler(authSvc)

	logSvc := actionlog.NewService(actionlog.NewRepository(db.DB), clock, cache)
	goalSvc := goal.NewService(goal.NewRepository(db.DB), clock)
	cardSvc := card.NewService(card.NewRepository(db.DB), cache)
	socialSvc := social.NewService(social.NewRepository(db.DB))
	profileSvc := profile.NewService(userSvc, logSvc, goalSvc, socialSvc, cardSvc)
	assessmentSvc := assessment.NewService(assessment.NewRepository(db.DB))

	healthHandler := health.NewHandler(cfg.App.Version,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:          db.Stats,
		RedisStats:       redis.PoolStats,
		DBPing:           db.Ping,
		RedisPing:        redis.Ping,
		RankDistribution: userSvc.RankDistribution,
		LedgerTotals:     logSvc.Totals,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer(logger))
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

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	router.Get("/.well-known/jwks.json", issuer.JWKS())

	authenticator := middleware.Authenticator(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.MutationRateLimiter(
			redis.Client,
			middleware.PerMinute(mutationRequests, mutationBurst),
		))

		authHandler.RegisterRoutes(r, authenticator)
		r.Post("/users", authHandler.Register)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)

		card.NewHandler(cardSvc).RegisterRoutes(r, optionalAuth)
		goal.NewHandler(goalSvc).RegisterRoutes(r, authenticator)
		actionlog.NewHandler(logSvc).RegisterRoutes(r, authenticator)
		social.NewHandler(socialSvc).RegisterRoutes(r, authenticator, optionalAuth)
		profile.NewHandler(profileSvc).RegisterRoutes(r, authenticator, optionalAuth)
		assessment.NewHandler(assessmentSvc).RegisterRoutes(r, authenticator)
	})

	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(realClock,
			scheduler.TokenCleanup(authSvc, cfg.Scheduler.TokenCleanupInterval),
		)
		if err != nil {
			return err
		}
		jobs.Start()
	}

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

	if jobs != nil {
		if err := jobs.Shutdown(); err != nil {
			logger.Error("scheduler shutdown error", "error", err)
		}
	}

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
