// Package memory is the default, process-local product repository.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/R3E-Network/modulith/modules/catalog/app"
	"github.com/R3E-Network/modulith/modules/catalog/domain"
)

type record struct {
	name  string
	price float64
}

// Store keeps products in a map guarded by a RWMutex. Products are copied in
// and out so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	products map[uuid.UUID]record
}

var _ app.ProductRepository = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{products: make(map[uuid.UUID]record)}
}

// Save inserts or replaces a product.
func (s *Store) Save(ctx context.Context, p *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("memory: nil product")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID()] = record{name: p.Name(), price: p.Price()}
	return nil
}

// Get returns the product or app.ErrNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	rec, ok := s.products[id]
	s.mu.RUnlock()
	if !ok {
		return nil, app.ErrNotFound
	}
	return domain.Restore(id, rec.name, rec.price), nil
}

// Len returns the number of stored products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
