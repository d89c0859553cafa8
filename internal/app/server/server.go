// Package server wires configuration, storage and transport into the
// running HTTP service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"gourmetto/internal/app/workspace"
	"gourmetto/internal/domain/gateway"
	"gourmetto/internal/domain/notify"
	"gourmetto/internal/platform/config"
	"gourmetto/internal/platform/connectivity"
	"gourmetto/internal/platform/db"
	"gourmetto/internal/platform/jobs"
	"gourmetto/internal/platform/metrics"
	"gourmetto/internal/platform/sessions"
	authhandler "gourmetto/internal/transport/http/handlers/auth"
	corehandler "gourmetto/internal/transport/http/handlers/core"
	notificationshandler "gourmetto/internal/transport/http/handlers/notifications"
	systemhandler "gourmetto/internal/transport/http/handlers/system"
	"gourmetto/internal/transport/http/middleware"
)

const (
	sweepJob        = "session_sweep"
	shutdownTimeout = 10 * time.Second
)

// Deps are the collaborators the router needs. Tests build them from
// fakes; New builds them from configuration.
type Deps struct {
	Config     config.Config
	Users      authhandler.Users
	Sessions   sessions.Store
	Workspaces *workspace.Registry
	Monitor    *connectivity.Monitor
	Metrics    *metrics.Collector
	Jobs       *jobs.Service
}

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Jobs   *jobs.Service
	Deps   Deps
	Router http.Handler
}

// New connects to the store, applies migrations and the seed when asked
// to, and assembles the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app := &App{Config: cfg, DB: pool, Jobs: jobs.New()}

	var store sessions.Store = sessions.NewMemoryStore()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("redis url: %w", err)
		}
		app.Redis = redis.NewClient(opts)
		store = sessions.NewRedisStore(app.Redis)
	} else {
		log.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
	}

	gw := gateway.New(pool)
	collector := metrics.New()
	monitor := connectivity.New(gw,
		connectivity.WithTimeout(cfg.ProbeTimeout),
		connectivity.WithProbeHook(collector.Probe),
	)
	registry := workspace.NewRegistry(gw, monitor,
		workspace.WithGuardOptions(
			notify.WithDismissAfter(cfg.NotifyDismissAfter),
			notify.WithObserver(func(n notify.Notification) { collector.Notice(n.Blocking) }),
		),
		workspace.WithFailureHook(collector.StoreFailure),
	)

	app.Jobs.Every(connectivity.ProbeJob, cfg.ProbeInterval, func(ctx context.Context) (any, error) {
		return monitor.Check(ctx), nil
	})
	app.Jobs.Every(sweepJob, cfg.SessionSweep, func(ctx context.Context) (any, error) {
		closed := registry.Sweep(ctx, func(ctx context.Context, id string) (bool, error) {
			return sessions.Alive(ctx, store, id)
		})
		collector.SessionsSwept(closed)
		return closed, nil
	})

	app.Deps = Deps{
		Config:     cfg,
		Users:      gw,
		Sessions:   store,
		Workspaces: registry,
		Monitor:    monitor,
		Metrics:    collector,
		Jobs:       app.Jobs,
	}
	app.Router = NewRouter(app.Deps)
	return app, nil
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(d.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	system := systemhandler.NewHandler(d.Monitor, d.Metrics, d.Jobs)
	system.RegisterProbes(router)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SensitiveRateLimit(cfg.RateLimitPerSecond/2, cfg.RateLimitBurst/2+1))
		r.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))

		authHandler := authhandler.NewHandler(d.Users, d.Sessions, d.Workspaces, cfg.JWTSecret, cfg.SessionTTL)
		authHandler.RegisterPublicRoutes(r)
		system.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(d.Sessions, d.Workspaces))
			authHandler.RegisterRoutes(r)
			system.RegisterRoutes(r)
			corehandler.NewHandler(d.Monitor).RegisterRoutes(r)
			notificationshandler.NewHandler().RegisterRoutes(r)
		})
	})
	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	a.Jobs.Start(jobCtx)
	a.Jobs.Enqueue(connectivity.ProbeJob, func(ctx context.Context) (any, error) {
		return a.Deps.Monitor.Check(ctx), nil
	})

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.Config.Addr).Msg("Gourmetto RH listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	stopJobs()
	a.Jobs.Wait()
	return err
}

func (a *App) Close() {
	if a.Deps.Workspaces != nil {
		a.Deps.Workspaces.CloseAll()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
