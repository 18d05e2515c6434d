package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/R3E-Network/modulith/modules/catalog/app"
	"github.com/R3E-Network/modulith/modules/catalog/domain"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := New()
	ctx := context.Background()
	p := domain.CreateProduct("Widget", 9.99).Value().Entity

	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, p.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID() != p.ID() || got.Name() != "Widget" || got.Price() != 9.99 {
		t.Fatalf("unexpected product %+v", got)
	}

	got.Rename("Changed")
	again, _ := store.Get(ctx, p.ID())
	if again.Name() != "Widget" {
		t.Fatalf("store must not share state with callers, got %q", again.Name())
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 product, got %d", store.Len())
	}
}

func TestStoreGetMissing(t *testing.T) {
	if _, err := New().Get(context.Background(), uuid.New()); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := domain.CreateProduct("Widget", 1).Value().Entity
	if err := New().Save(ctx, p); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
