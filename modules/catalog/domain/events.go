package domain

import (
	"github.com/google/uuid"

	shared "github.com/R3E-Network/modulith/pkg/domain"
)

// Event names.
const (
	EventProductCreated = "catalog.product.created"
	EventProductRenamed = "catalog.product.renamed"
)

// ProductCreated is raised by CreateProduct.
type ProductCreated struct {
	shared.BaseEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
}

func (ProductCreated) EventName() string { return EventProductCreated }

// ProductRenamed is raised by Product.Rename.
type ProductRenamed struct {
	shared.BaseEvent
	ProductID uuid.UUID `json:"product_id"`
	OldName   string    `json:"old_name"`
	NewName   string    `json:"new_name"`
}

func (ProductRenamed) EventName() string { return EventProductRenamed }
