// Package postgres stores catalog products in PostgreSQL through sqlx.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/R3E-Network/modulith/modules/catalog/app"
	"github.com/R3E-Network/modulith/modules/catalog/domain"
)

// Migrations holds the catalog schema, applied by the host at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsTable keeps catalog migration state apart from other modules.
const MigrationsTable = "catalog_schema_migrations"

type productRow struct {
	ID    string  `db:"id"`
	Name  string  `db:"name"`
	Price float64 `db:"price"`
}

// Store implements app.ProductRepository on top of a sqlx handle.
type Store struct {
	db *sqlx.DB
}

var _ app.ProductRepository = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Save upserts the product.
func (s *Store) Save(ctx context.Context, p *domain.Product) error {
	row := productRow{ID: p.ID().String(), Name: p.Name(), Price: p.Price()}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO catalog_products (id, name, price)
		VALUES (:id, :name, :price)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, updated_at = now()
	`, row)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", row.ID, err)
	}
	return nil
}

// Get loads one product, returning app.ErrNotFound when it does not exist.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `SELECT id, name, price FROM catalog_products WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, app.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product %s: %w", id, err)
	}

	parsed, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("product %s: stored id %q: %w", id, row.ID, err)
	}
	return domain.Restore(parsed, row.Name, row.Price), nil
}
