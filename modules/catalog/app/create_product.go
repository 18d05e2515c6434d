package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/R3E-Network/modulith/internal/app/metrics"
	"github.com/R3E-Network/modulith/modules/catalog/domain"
	shared "github.com/R3E-Network/modulith/pkg/domain"
	"github.com/R3E-Network/modulith/pkg/logger"
	"github.com/R3E-Network/modulith/pkg/result"
)

// Codes produced by the pipeline itself. Factory codes live in the domain package.
const (
	CodeValidation  = "validation"
	CodePersistence = "product.persistence"
)

// CreateProductCommand asks for a new product.
type CreateProductCommand struct {
	Name  string  `json:"name" validate:"notblank,max=200"`
	Price float64 `json:"price" validate:"gte=0"`
}

type productFactory func(name string, price float64) result.Result[shared.Change[*domain.Product]]

// CreateProductHandler validates a command, builds the product and, when a
// repository is attached, stores it.
type CreateProductHandler struct {
	validator *CreateProductValidator
	repo      ProductRepository
	create    productFactory
	events    EventPublisher
	log       *logger.Logger
}

// NewCreateProductHandler wires the handler. repo may be nil, in which case
// the product is built but not stored.
func NewCreateProductHandler(v *CreateProductValidator, repo ProductRepository, log *logger.Logger) *CreateProductHandler {
	if v == nil {
		v = NewCreateProductValidator()
	}
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &CreateProductHandler{validator: v, repo: repo, create: domain.CreateProduct, log: log}
}

// WithPublisher routes raised events to p instead of only logging them.
func (h *CreateProductHandler) WithPublisher(p EventPublisher) *CreateProductHandler {
	h.events = p
	return h
}

// Handle runs the pipeline. Every outcome is returned as a Result: validation
// failures carry CodeValidation, factory failures keep the factory code.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) result.Result[uuid.UUID] {
	if msgs := h.validator.Validate(ctx, cmd); len(msgs) > 0 {
		metrics.RecordCommand("catalog", "create_product", "rejected")
		return result.Failure[uuid.UUID](CodeValidation, strings.Join(msgs, "; "))
	}

	created := h.create(cmd.Name, cmd.Price)
	if created.IsFailure() {
		metrics.RecordCommand("catalog", "create_product", "rejected")
		return result.FailureFrom[uuid.UUID](created.Err())
	}
	change := created.Value()
	product := change.Entity

	if h.repo != nil {
		if err := h.repo.Save(ctx, product); err != nil {
			h.log.WithContext(ctx).WithError(err).WithField("product_id", product.ID()).Error("save product")
			metrics.RecordCommand("catalog", "create_product", "failed")
			return result.Failure[uuid.UUID](CodePersistence, "Product could not be saved")
		}
	}

	h.dispatch(ctx, change.Events)
	metrics.RecordCommand("catalog", "create_product", "accepted")
	return result.Success(product.ID())
}

func (h *CreateProductHandler) dispatch(ctx context.Context, events shared.Events) {
	if h.events != nil {
		h.events.Publish(ctx, events)
		return
	}
	for _, ev := range events {
		metrics.RecordEvent(ev.EventName())
		h.log.WithContext(ctx).WithField("event", ev.EventName()).Debug("domain event")
	}
}
