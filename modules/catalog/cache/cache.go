// Package cache adds a Redis read-through cache in front of a product repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/R3E-Network/modulith/modules/catalog/app"
	"github.com/R3E-Network/modulith/modules/catalog/domain"
	shared "github.com/R3E-Network/modulith/pkg/domain"
	"github.com/R3E-Network/modulith/pkg/logger"
)

const keyPrefix = "catalog:product:"

// Repository decorates another repository. Redis failures are logged and the
// call falls through to the wrapped repository.
type Repository struct {
	next   app.ProductRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

var _ app.ProductRepository = (*Repository)(nil)

// New wraps next with a cache stored in client for ttl.
func New(next app.ProductRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *Repository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.NewDefault("catalog-cache")
	}
	return &Repository{next: next, client: client, ttl: ttl, log: log}
}

// Key returns the cache key of a product.
func Key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Save writes through and refreshes the cached copy.
func (r *Repository) Save(ctx context.Context, p *domain.Product) error {
	if err := r.next.Save(ctx, p); err != nil {
		return err
	}
	r.store(ctx, app.ViewOf(p))
	return nil
}

// Get serves from Redis when possible and fills the cache on a miss.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	raw, err := r.client.Get(ctx, Key(id)).Bytes()
	switch {
	case err == nil:
		var view app.ProductView
		if jsonErr := json.Unmarshal(raw, &view); jsonErr == nil {
			return domain.Restore(view.ID, view.Name, view.Price), nil
		}
		r.log.WithContext(ctx).WithField("product_id", id).Warn("discarding corrupt cache entry")
	case !errors.Is(err, redis.Nil):
		r.log.WithContext(ctx).WithError(err).Warn("cache read failed")
	}

	p, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, app.ViewOf(p))
	return p, nil
}

// Evict drops the cached copy of a product.
func (r *Repository) Evict(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, Key(id)).Err()
}

// OnProductRenamed is an event handler that evicts the renamed product so the
// next read reloads it from the wrapped repository.
func (r *Repository) OnProductRenamed(ctx context.Context, event shared.Event) {
	renamed, ok := event.(domain.ProductRenamed)
	if !ok {
		return
	}
	if err := r.Evict(ctx, renamed.ProductID); err != nil {
		r.log.WithContext(ctx).WithError(err).WithField("product_id", renamed.ProductID).Warn("cache eviction failed")
	}
}

func (r *Repository) store(ctx context.Context, view app.ProductView) {
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, Key(view.ID), raw, r.ttl).Err(); err != nil {
		r.log.WithContext(ctx).WithError(err).Warn("cache write failed")
	}
}
