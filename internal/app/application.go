// Package app is the composition root of the host: it opens the shared
// infrastructure, loads the modules, builds the HTTP surface and manages the
// lifecycle of background services.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/R3E-Network/modulith/internal/app/metrics"
	"github.com/R3E-Network/modulith/internal/app/system"
	"github.com/R3E-Network/modulith/internal/config"
	"github.com/R3E-Network/modulith/internal/middleware"
	"github.com/R3E-Network/modulith/internal/platform/events"
	"github.com/R3E-Network/modulith/internal/plugin"
	"github.com/R3E-Network/modulith/pkg/logger"
)

const connectTimeout = 5 * time.Second

// Option customises New.
type Option func(*options)

type options struct {
	log   *logger.Logger
	db    *sqlx.DB
	redis *redis.Client
}

// WithLogger overrides the logger built from the configuration.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithDatabase supplies an already opened database. The caller keeps
// ownership and closes it.
func WithDatabase(db *sqlx.DB) Option {
	return func(o *options) { o.db = db }
}

// WithRedis supplies an already connected Redis client owned by the caller.
func WithRedis(client *redis.Client) Option {
	return func(o *options) { o.redis = client }
}

// Application ties the modules together and manages their lifecycle.
type Application struct {
	cfg       *config.Config
	log       *logger.Logger
	manager   *system.Manager
	services  *plugin.Services
	events    *events.Dispatcher
	modules   []plugin.Module
	limiter   *middleware.RateLimiter
	handler   http.Handler
	db        *sqlx.DB
	redis     *redis.Client
	startedAt time.Time
}

// New builds a fully initialised application from the configuration and the
// module factory list. Any module failing to register aborts construction.
func New(cfg *config.Config, factories []plugin.Factory, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	if log == nil {
		log = logger.New(logger.LoggingConfig{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		})
	}

	a := &Application{
		cfg:       cfg,
		log:       log,
		manager:   system.NewManager(),
		services:  plugin.NewServices(),
		events:    events.NewDispatcher(log.Named("events")),
		db:        o.db,
		redis:     o.redis,
		startedAt: time.Now(),
	}

	// closers for what New opened itself; run on failure or at Stop
	var owned []system.Service
	fail := func(err error) (*Application, error) {
		for i := len(owned) - 1; i >= 0; i-- {
			_ = owned[i].Stop(context.Background())
		}
		return nil, err
	}

	if a.db == nil && cfg.Database.URL != "" {
		db, err := openDatabase(cfg.Database)
		if err != nil {
			return fail(fmt.Errorf("open database: %w", err))
		}
		a.db = db
		owned = append(owned, system.ServiceFunc{
			ServiceName: "database",
			StopFunc:    func(context.Context) error { return db.Close() },
		})
	}
	if a.redis == nil && cfg.Redis.Addr != "" {
		client, err := openRedis(cfg.Redis)
		if err != nil {
			return fail(fmt.Errorf("connect redis: %w", err))
		}
		a.redis = client
		owned = append(owned, system.ServiceFunc{
			ServiceName: "redis",
			StopFunc:    func(context.Context) error { return client.Close() },
		})
	}

	if err := a.provideShared(); err != nil {
		return fail(err)
	}

	modules, err := plugin.NewRegistry(factories...).WithLogger(log.Named("registry")).Load(a.services, cfg)
	if err != nil {
		return fail(fmt.Errorf("load modules: %w", err))
	}
	a.modules = modules
	metrics.SetModulesLoaded(len(modules))

	a.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log.Named("ratelimit"))
	a.handler, err = a.routes()
	if err != nil {
		return fail(err)
	}

	if cfg.RateLimit.CleanupSchedule != "" {
		maint, err := newMaintenance(cfg.RateLimit.CleanupSchedule, a.limiter, cfg.RateLimit.IdleAfter, log.Named("maintenance"))
		if err != nil {
			return fail(err)
		}
		if err := a.manager.Register(maint); err != nil {
			return fail(err)
		}
	}
	// connections close after everything else stops
	for i := len(owned) - 1; i >= 0; i-- {
		if err := a.manager.Register(owned[i]); err != nil {
			return fail(err)
		}
	}

	return a, nil
}

func (a *Application) provideShared() error {
	if err := plugin.Provide(a.services, plugin.ServiceLogger, a.log); err != nil {
		return err
	}
	if err := plugin.Provide[prometheus.Registerer](a.services, plugin.ServiceMetrics, metrics.Registry); err != nil {
		return err
	}
	if err := plugin.Provide(a.services, plugin.ServiceEvents, a.events); err != nil {
		return err
	}
	if a.db != nil {
		if err := plugin.Provide(a.services, plugin.ServiceDB, a.db); err != nil {
			return err
		}
	}
	if a.redis != nil {
		if err := plugin.Provide(a.services, plugin.ServiceRedis, a.redis); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the host router with its middleware chain.
func (a *Application) Handler() http.Handler { return a.handler }

// Modules lists the loaded modules in registration order.
func (a *Application) Modules() []plugin.Module { return a.modules }

// Events returns the domain event dispatcher shared by the modules.
func (a *Application) Events() *events.Dispatcher { return a.events }

// Services exposes the shared registration context.
func (a *Application) Services() *plugin.Services { return a.services }

// Start begins all registered background services.
func (a *Application) Start(ctx context.Context) error {
	if err := a.manager.Start(ctx); err != nil {
		return err
	}
	a.log.WithField("modules", len(a.modules)).Info("host started")
	return nil
}

// Stop stops background services and closes owned connections.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}

// Run starts the services and the HTTP server, blocks until ctx is cancelled
// or the server fails, then shuts down within the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      a.handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", a.cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutting down")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if serveErr != nil {
		errs = append(errs, fmt.Errorf("http server: %w", serveErr))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.Stop(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func openDatabase(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpen > 0 {
		db.SetMaxOpenConns(cfg.MaxOpen)
		db.SetMaxIdleConns(cfg.MaxOpen)
	}
	return db, nil
}

func openRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
