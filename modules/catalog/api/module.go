// Package api is the catalog module entry point: it registers the catalog
// services with the host and exposes the /v1/catalog endpoints.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"

	"github.com/R3E-Network/modulith/internal/config"
	"github.com/R3E-Network/modulith/internal/platform/events"
	"github.com/R3E-Network/modulith/internal/platform/migrations"
	"github.com/R3E-Network/modulith/internal/plugin"
	"github.com/R3E-Network/modulith/modules/catalog/app"
	"github.com/R3E-Network/modulith/modules/catalog/cache"
	"github.com/R3E-Network/modulith/modules/catalog/domain"
	"github.com/R3E-Network/modulith/modules/catalog/memory"
	"github.com/R3E-Network/modulith/modules/catalog/postgres"
	"github.com/R3E-Network/modulith/pkg/logger"
)

// Name is the module name used in configuration and logs.
const Name = "catalog"

// Names under which the catalog provides its services.
const (
	ServiceRepository    = "catalog.repository"
	ServiceCreateProduct = "catalog.create_product"
	ServiceGetProduct    = "catalog.get_product"
)

// Module is the catalog plugin.Module.
type Module struct {
	log    *logger.Logger
	cache  *cache.Repository
	create *app.CreateProductHandler
	get    *app.GetProductHandler
}

// eventSubscriber is the subscription side of the host's events service.
type eventSubscriber interface {
	Subscribe(name string, handler events.Handler) func()
}

var _ plugin.Module = (*Module)(nil)

// New is the zero-argument factory used by the module list.
func New() plugin.Module {
	return &Module{}
}

func (m *Module) Name() string { return Name }

// Register picks the repository from what the host provides (PostgreSQL when
// a database is configured, memory otherwise, optionally behind Redis) and
// provides the catalog handlers.
func (m *Module) Register(services *plugin.Services, cfg *config.Config) error {
	log, err := plugin.Resolve[*logger.Logger](services, plugin.ServiceLogger)
	if err != nil {
		log = logger.NewDefault(Name)
	} else {
		log = log.Named(Name)
	}
	m.log = log

	repo, err := m.repository(services, cfg)
	if err != nil {
		return err
	}

	validator := app.NewCreateProductValidator()
	m.create = app.NewCreateProductHandler(validator, repo, log)
	if services.Has(plugin.ServiceEvents) {
		publisher, err := plugin.Resolve[app.EventPublisher](services, plugin.ServiceEvents)
		if err != nil {
			return err
		}
		m.create.WithPublisher(publisher)

		if sub, ok := publisher.(eventSubscriber); ok && m.cache != nil {
			sub.Subscribe(domain.EventProductRenamed, m.cache.OnProductRenamed)
		}
	}
	m.get = app.NewGetProductHandler(repo)

	if err := plugin.Provide[app.ProductRepository](services, ServiceRepository, repo); err != nil {
		return err
	}
	if err := plugin.Provide(services, ServiceCreateProduct, m.create); err != nil {
		return err
	}
	return plugin.Provide(services, ServiceGetProduct, m.get)
}

func (m *Module) repository(services *plugin.Services, cfg *config.Config) (app.ProductRepository, error) {
	var repo app.ProductRepository = memory.New()

	if services.Has(plugin.ServiceDB) {
		db, err := plugin.Resolve[*sqlx.DB](services, plugin.ServiceDB)
		if err != nil {
			return nil, err
		}
		if cfg != nil && cfg.Database.AutoMigrate && cfg.Database.URL != "" {
			if err := migrations.Up(cfg.Database.URL, postgres.Migrations, "migrations", postgres.MigrationsTable); err != nil {
				return nil, fmt.Errorf("catalog migrations: %w", err)
			}
			m.log.Info("catalog schema migrated")
		}
		repo = postgres.New(db)
		m.log.Info("catalog using postgres repository")
	} else {
		m.log.Warn("no database configured; catalog using in-memory repository")
	}

	if services.Has(plugin.ServiceRedis) {
		client, err := plugin.Resolve[*redis.Client](services, plugin.ServiceRedis)
		if err != nil {
			return nil, err
		}
		m.cache = cache.New(repo, client, cacheTTL(cfg), m.log)
		repo = m.cache
		m.log.Info("catalog reads cached in redis")
	}
	return repo, nil
}

func cacheTTL(cfg *config.Config) time.Duration {
	if cfg == nil {
		return 0
	}
	if raw, ok := cfg.Modules.Setting(Name, "cache_ttl"); ok {
		if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
			return ttl
		}
	}
	return cfg.Redis.TTL
}

// MapEndpoints attaches the /v1/catalog routes.
func (m *Module) MapEndpoints(router *mux.Router) {
	if m.log == nil {
		m.log = logger.NewDefault(Name)
	}
	if m.create == nil {
		m.create = app.NewCreateProductHandler(nil, nil, m.log)
	}
	if m.get == nil {
		m.get = app.NewGetProductHandler(nil)
	}

	group := router.PathPrefix("/v1/catalog").Subrouter()
	group.HandleFunc("/ping", m.ping).Methods(http.MethodGet)
	group.HandleFunc("/products", m.createProduct).Methods(http.MethodPost)
	group.HandleFunc("/products/{id:"+uuidPattern+"}", m.getProduct).Methods(http.MethodGet)
}
