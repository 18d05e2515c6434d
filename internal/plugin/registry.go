package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/mux"

	"github.com/R3E-Network/modulith/internal/config"
	"github.com/R3E-Network/modulith/pkg/logger"
)

var (
	// ErrInvalidModule is returned when a factory is missing or yields no module.
	ErrInvalidModule = errors.New("plugin: invalid module")
	// ErrDuplicateModule is returned when two factories produce the same module name.
	ErrDuplicateModule = errors.New("plugin: duplicate module")
)

// Registry holds the build-time list of module factories. Modules are loaded
// in the order the factories were given.
type Registry struct {
	factories []Factory
	log       *logger.Logger
}

// NewRegistry creates a registry over the given factories.
func NewRegistry(factories ...Factory) *Registry {
	return &Registry{factories: factories, log: logger.NewDefault("plugin")}
}

// WithLogger replaces the registry logger.
func (r *Registry) WithLogger(log *logger.Logger) *Registry {
	if log != nil {
		r.log = log
	}
	return r
}

// Len returns the number of factories.
func (r *Registry) Len() int {
	return len(r.factories)
}

// Load instantiates every module, skips the ones disabled in cfg, and calls
// Register on the rest in factory order. The first failure aborts loading;
// callers treat it as fatal.
func (r *Registry) Load(services *Services, cfg *config.Config) ([]Module, error) {
	if services == nil {
		return nil, fmt.Errorf("%w: nil services context", ErrInvalidModule)
	}

	modules := make([]Module, 0, len(r.factories))
	seen := make(map[string]struct{}, len(r.factories))

	for i, factory := range r.factories {
		m, err := instantiate(factory)
		if err != nil {
			return nil, fmt.Errorf("module #%d: %w", i, err)
		}

		name := strings.TrimSpace(m.Name())
		if name == "" {
			return nil, fmt.Errorf("module #%d: %w: empty name", i, ErrInvalidModule)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("module %q: %w", name, ErrDuplicateModule)
		}
		seen[key] = struct{}{}

		if !cfg.ModuleEnabled(name) {
			r.log.WithField("module", name).Info("module disabled; skipping")
			continue
		}

		if err := m.Register(services, cfg); err != nil {
			return nil, fmt.Errorf("register module %q: %w", name, err)
		}
		r.log.WithField("module", name).Info("module registered")
		modules = append(modules, m)
	}
	return modules, nil
}

func instantiate(factory Factory) (m Module, err error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil factory", ErrInvalidModule)
	}
	defer func() {
		if p := recover(); p != nil {
			m, err = nil, fmt.Errorf("%w: constructor panicked: %v", ErrInvalidModule, p)
		}
	}()
	m = factory()
	if m == nil {
		return nil, fmt.Errorf("%w: factory returned nil", ErrInvalidModule)
	}
	return m, nil
}

// MapEndpoints attaches the routes of every module to router, in the order the
// modules were loaded. It is not idempotent: call it once per router.
func MapEndpoints(router *mux.Router, modules []Module) {
	for _, m := range modules {
		m.MapEndpoints(router)
	}
}
