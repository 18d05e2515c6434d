// Package app holds the catalog use cases: the create-product command
// pipeline and the get-product query.
package app

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/R3E-Network/modulith/modules/catalog/domain"
	shared "github.com/R3E-Network/modulith/pkg/domain"
)

// ErrNotFound is returned by repositories when no product has the given id.
var ErrNotFound = errors.New("catalog: product not found")

// ProductRepository is the persistence collaborator of the catalog. It is
// safe for concurrent use.
type ProductRepository interface {
	Save(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// EventPublisher receives the domain events of accepted commands.
type EventPublisher interface {
	Publish(ctx context.Context, events shared.Events)
}

// ProductView is the read model returned to clients.
type ProductView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// ViewOf projects a product into its read model.
func ViewOf(p *domain.Product) ProductView {
	return ProductView{ID: p.ID(), Name: p.Name(), Price: p.Price()}
}
