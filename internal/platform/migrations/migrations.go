// Package migrations applies module schemas with golang-migrate. Every module
// ships its SQL in an embedded filesystem and tracks its state in its own
// migrations table so modules can evolve independently.
package migrations

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Up applies every pending migration found under dir in fsys.
func Up(databaseURL string, fsys fs.FS, dir, table string) error {
	m, err := newMigrator(databaseURL, fsys, dir, table)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s up: %w", table, err)
	}
	return nil
}

// Down rolls back every migration found under dir in fsys.
func Down(databaseURL string, fsys fs.FS, dir, table string) error {
	m, err := newMigrator(databaseURL, fsys, dir, table)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s down: %w", table, err)
	}
	return nil
}

func newMigrator(databaseURL string, fsys fs.FS, dir, table string) (*migrate.Migrate, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("open migrations %s: %w", dir, err)
	}
	target, err := WithMigrationsTable(databaseURL, table)
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, target)
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

// WithMigrationsTable points the postgres driver at a per-module state table.
func WithMigrationsTable(databaseURL, table string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(databaseURL))
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
	if table != "" {
		q := u.Query()
		q.Set("x-migrations-table", table)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
