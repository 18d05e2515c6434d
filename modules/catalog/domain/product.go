// Package domain contains the catalog aggregate.
package domain

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	shared "github.com/R3E-Network/modulith/pkg/domain"
	"github.com/R3E-Network/modulith/pkg/result"
)

// MaxNameLength bounds product names, in runes.
const MaxNameLength = 200

// Error codes raised by the product factory and mutators.
const (
	CodeNameEmpty     = "product.name.empty"
	CodeNameTooLong   = "product.name.too_long"
	CodePriceNegative = "product.price.negative"
	CodePriceInvalid  = "product.price.invalid"
)

// Product is a sellable catalog item.
type Product struct {
	shared.Entity[uuid.UUID]
	name  string
	price float64
}

// CreateProduct validates the input and builds a new product with a fresh
// identity. The returned change carries a ProductCreated event.
func CreateProduct(name string, price float64) result.Result[shared.Change[*Product]] {
	trimmed, err := checkName(name)
	if err != nil {
		return result.FailureFrom[shared.Change[*Product]](err)
	}
	if err := checkPrice(price); err != nil {
		return result.FailureFrom[shared.Change[*Product]](err)
	}

	p := &Product{Entity: shared.NewEntity(uuid.New()), name: trimmed, price: price}
	created := ProductCreated{BaseEvent: shared.NewBaseEvent(), ProductID: p.ID(), Name: p.name, Price: p.price}
	return result.Success(shared.Change[*Product]{Entity: p, Events: shared.Record(created)})
}

// Restore rebuilds a product read back from storage. The values are trusted
// and no event is raised.
func Restore(id uuid.UUID, name string, price float64) *Product {
	return &Product{Entity: shared.NewEntity(id), name: name, price: price}
}

// Name returns the trimmed product name.
func (p *Product) Name() string { return p.name }

// Price returns the product price.
func (p *Product) Price() float64 { return p.price }

// Rename changes the product name. An empty name leaves the product untouched.
func (p *Product) Rename(name string) result.Result[shared.Events] {
	trimmed, err := checkName(name)
	if err != nil {
		return result.FailureFrom[shared.Events](err)
	}
	if trimmed == p.name {
		return result.Success(shared.Record())
	}

	renamed := ProductRenamed{BaseEvent: shared.NewBaseEvent(), ProductID: p.ID(), OldName: p.name, NewName: trimmed}
	p.name = trimmed
	return result.Success(shared.Record(renamed))
}

func checkName(name string) (string, *result.Error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", result.NewError(CodeNameEmpty, "Name is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return "", result.NewError(CodeNameTooLong, "Name must be at most 200 characters")
	}
	return trimmed, nil
}

func checkPrice(price float64) *result.Error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return result.NewError(CodePriceInvalid, "Price must be a finite number")
	}
	if price < 0 {
		return result.NewError(CodePriceNegative, "Price must be >= 0")
	}
	return nil
}
