// Package main is the entrypoint for the Jotter API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jotter/jotter/internal/cache"
	"github.com/jotter/jotter/internal/config"
	"github.com/jotter/jotter/internal/handler"
	"github.com/jotter/jotter/internal/metrics"
	"github.com/jotter/jotter/internal/middleware"
	"github.com/jotter/jotter/internal/server"
	"github.com/jotter/jotter/internal/service"
	"github.com/jotter/jotter/internal/session"
	"github.com/jotter/jotter/internal/store"
	"github.com/jotter/jotter/internal/store/localstore"
	"github.com/jotter/jotter/internal/store/memory"
	"github.com/jotter/jotter/internal/store/postgres"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Storage backend
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error(
			"failed to open store",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("store opened", "driver", cfg.StoreDriver)

	// Session backend
	var cacheClient *cache.Cache
	var sessions session.Holder
	switch cfg.SessionBackend {
	case config.SessionRedis:
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		sessions = session.NewRedisHolder(cacheClient)
		logger.Info("connected to Redis")
	default:
		sessions = session.NewMemoryHolder()
		logger.Info("using in-process sessions")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheus(registry)

	// Services
	accountService := service.NewAccountService(st, sessions, recorder)
	noteService := service.NewNoteService(st, recorder)

	// Handlers
	healthHandler := handler.NewHealthHandler(st, healthCheckerOrNil(cacheClient))
	authHandler := handler.NewAuthHandler(accountService, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)

	r := setupRouter(routerDeps{
		health:   healthHandler,
		auth:     authHandler,
		notes:    noteHandler,
		sessions: sessions,
		cache:    cacheClient,
		metrics:  recorder,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("store", func(ctx context.Context) error { return st.Close() })
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error { return cacheClient.Close() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store_driver", cfg.StoreDriver,
		"session_backend", cfg.SessionBackend,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore builds the storage backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	case config.StoreSQLite:
		return localstore.Open(cfg.SQLitePath)
	default:
		return memory.New(), nil
	}
}

// healthCheckerOrNil avoids handing a typed-nil *cache.Cache to the
// health handler's interface field.
func healthCheckerOrNil(c *cache.Cache) handler.HealthChecker {
	if c == nil {
		return nil
	}
	return c
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	notes    *handler.NoteHandler
	sessions session.Holder
	cache    *cache.Cache
	metrics  metrics.Recorder
	registry *prometheus.Registry
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.BodyLimit(deps.cfg.MaxRequestBodySize))

	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Method("GET", "/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	sessionCfg := middleware.SessionConfig{
		Logger:   deps.logger,
		Sessions: deps.sessions,
		Metrics:  deps.metrics,
	}

	loginLimitCfg := middleware.LoginRateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Metrics: deps.metrics,
		Enabled: deps.cfg.LoginRateLimitEnabled,
		RPM:     deps.cfg.LoginRateLimitRPM,
		Burst:   deps.cfg.LoginRateLimitBurst,
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(sessionCfg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.auth.Register)
			r.With(middleware.LoginRateLimit(loginLimitCfg)).Post("/login", deps.auth.Login)
			r.Post("/logout", deps.auth.Logout)
			r.Get("/me", deps.auth.Me)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", deps.notes.List)
			r.Post("/", deps.notes.Create)
			r.Delete("/{id}", deps.notes.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
