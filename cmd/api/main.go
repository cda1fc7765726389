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

	"github.com/carterperez-dev/eightspots/internal/admin"
	"github.com/carterperez-dev/eightspots/internal/auth"
	"github.com/carterperez-dev/eightspots/internal/catalog"
	"github.com/carterperez-dev/eightspots/internal/config"
	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/genre"
	"github.com/carterperez-dev/eightspots/internal/health"
	"github.com/carterperez-dev/eightspots/internal/library"
	"github.com/carterperez-dev/eightspots/internal/location"
	"github.com/carterperez-dev/eightspots/internal/middleware"
	"github.com/carterperez-dev/eightspots/internal/review"
	"github.com/carterperez-dev/eightspots/internal/server"
	"github.com/carterperez-dev/eightspots/internal/session"
	"github.com/carterperez-dev/eightspots/internal/storage"
	"github.com/carterperez-dev/eightspots/internal/user"
)

const (
	drainDelay           = 5 * time.Second
	sessionSweepInterval = time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to config file")
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
	defer closeWith(logger, "database", db.Close)
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeWith(logger, "redis", redis.Close)
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	vocab, err := genre.NewVocabulary(cfg.Catalog.Genres)
	if err != nil {
		return err
	}
	added, err := catalog.SyncVocabulary(ctx, db.DB, vocab)
	if err != nil {
		return err
	}
	logger.Info("genre vocabulary ready",
		"labels", vocab.Len(),
		"appended", added,
	)

	sessions, err := session.NewStore(cfg.Session, redis.Client)
	if err != nil {
		return err
	}
	if mem, ok := sessions.(*session.MemoryStore); ok {
		go mem.RunSweeper(ctx, sessionSweepInterval)
	}
	logger.Info("session store ready",
		"backend", cfg.Session.Backend,
		"ttl", cfg.Session.TTL.String(),
	)

	objects, err := newObjectStorage(cfg.Storage, logger)
	if err != nil {
		return err
	}
	posters := storage.NewPosterStore(objects)
	if err := posters.Ping(ctx); err != nil {
		return err
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		userSvc,
		sessions,
		core.Argon2Hasher{},
		auth.NewAdminIDs(cfg.Auth.AdminIDs),
	)
	authHandler := auth.NewHandler(authSvc, cfg.Session)

	reviewSvc := review.NewService(review.NewRepository(db.DB))
	reviewHandler := review.NewHandler(reviewSvc)

	locationSvc := location.NewService(location.NewRepository(db.DB))
	locationHandler := location.NewHandler(locationSvc)

	catalogSvc := catalog.NewService(
		catalog.NewRepository(db.DB),
		vocab,
		posters,
		cfg.Catalog.TopN,
	)
	catalogHandler := catalog.NewHandler(
		catalogSvc,
		locationSvc,
		reviewSvc,
		cfg.Storage.MaxPosterBytes,
	)

	librarySvc := library.NewService(library.NewRepository(db.DB))
	libraryHandler := library.NewHandler(librarySvc, vocab)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "storage", Checker: posters},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Tallies: []admin.Tally{
			{Name: "movies", Counter: catalogSvc},
			{Name: "reviews", Counter: reviewSvc},
			{Name: "library_entries", Counter: librarySvc},
		},
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	anonymousOnly := middleware.RequireAnonymous(cfg.Auth.HomePath)
	authenticated := middleware.RequireAuthenticated(cfg.Auth.LoginPath)
	adminOnly := middleware.RequireAdmin
	loginLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.LoginRequests,
			cfg.RateLimit.LoginBurst,
			cfg.RateLimit.Window,
		),
		KeyFunc: middleware.KeyByIPFor("login"),
	}).Handler

	reviewRoutes := func(r chi.Router) {
		r.With(authenticated).Post("/{movieID}/reviews", reviewHandler.Create)
	}

	globalLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.LoadPrincipal(authSvc, cfg.Session.CookieName))
		r.Use(globalLimit)

		authHandler.RegisterRoutes(r, anonymousOnly, authenticated, loginLimit)
		userHandler.RegisterRoutes(r, authenticated)
		userHandler.RegisterAdminRoutes(r, adminOnly)

		catalogHandler.RegisterRoutes(r, adminOnly,
			libraryHandler.BuyRoute(authenticated),
			reviewRoutes,
		)
		libraryHandler.RegisterRoutes(r, authenticated)
		locationHandler.RegisterRoutes(r, adminOnly)
		adminHandler.RegisterRoutes(r, adminOnly)
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

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

// newObjectStorage falls back to an in-process bucket when no MinIO endpoint
// is configured. Posters stored there do not survive a restart.
func newObjectStorage(cfg config.StorageConfig, logger *slog.Logger) (storage.ObjectStorage, error) {
	if cfg.Endpoint == "" {
		logger.Warn("storage endpoint not set, posters kept in memory")
		return storage.NewMemoryBackend(cfg.Bucket), nil
	}

	client, err := storage.NewMinioClient(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("object storage configured",
		"endpoint", cfg.Endpoint,
		"bucket", cfg.Bucket,
	)
	return client, nil
}

func closeWith(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error(name+" close error", "error", err)
	}
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
