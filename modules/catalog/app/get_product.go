package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// GetProductQuery asks for one product by id.
type GetProductQuery struct {
	ID uuid.UUID
}

// GetProductHandler reads products through the repository.
type GetProductHandler struct {
	repo ProductRepository
}

// NewGetProductHandler wires the query handler.
func NewGetProductHandler(repo ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle returns the product view and whether it exists. Errors are
// infrastructure failures only.
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (ProductView, bool, error) {
	if h.repo == nil {
		return ProductView{}, false, nil
	}
	p, err := h.repo.Get(ctx, q.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		return ProductView{}, false, nil
	case err != nil:
		return ProductView{}, false, fmt.Errorf("get product %s: %w", q.ID, err)
	}
	return ViewOf(p), true, nil
}
