package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Well-known entries the host provides before modules register.
const (
	ServiceLogger  = "logger"
	ServiceMetrics = "metrics.registerer"
	ServiceDB      = "database"
	ServiceRedis   = "redis"
	ServiceEvents  = "events"
)

// ErrServiceNotFound is returned when a service name has no provider.
var ErrServiceNotFound = errors.New("plugin: service not found")

// Services is the registration context shared by the host and its modules.
// Writes happen during startup; reads may happen from request goroutines.
type Services struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewServices returns an empty registration context.
func NewServices() *Services {
	return &Services{entries: make(map[string]any)}
}

// Provide registers a service under name. Registering a name twice is an error.
func Provide[T any](s *Services, name string, svc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("plugin: service %q already provided", name)
	}
	s.entries[name] = svc
	return nil
}

// Resolve looks up a service by name and asserts its type.
func Resolve[T any](s *Services, name string) (T, error) {
	var zero T
	s.mu.RLock()
	v, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	svc, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("plugin: service %q is %T, not %T", name, v, zero)
	}
	return svc, nil
}

// MustResolve is Resolve for services whose absence is a wiring bug.
func MustResolve[T any](s *Services, name string) T {
	svc, err := Resolve[T](s, name)
	if err != nil {
		panic(err)
	}
	return svc
}

// Has reports whether name has a provider.
func (s *Services) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[name]
	return ok
}

// Names lists provided service names in sorted order.
func (s *Services) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
