package migrations

import (
	"net/url"
	"os"
	"testing"
	"testing/fstest"
)

func TestWithMigrationsTable(t *testing.T) {
	got, err := WithMigrationsTable("postgres://app:pw@localhost:5432/app?sslmode=disable", "catalog_schema_migrations")
	if err != nil {
		t.Fatalf("with table: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if u.Query().Get("x-migrations-table") != "catalog_schema_migrations" {
		t.Fatalf("expected migrations table parameter, got %s", got)
	}
	if u.Query().Get("sslmode") != "disable" {
		t.Fatalf("expected existing parameters to be kept, got %s", got)
	}
}

func TestWithMigrationsTableRejectsOtherSchemes(t *testing.T) {
	if _, err := WithMigrationsTable("mysql://localhost/app", "t"); err == nil {
		t.Fatalf("expected unsupported scheme error")
	}
}

func TestUpRequiresMigrationsDir(t *testing.T) {
	fsys := fstest.MapFS{}
	if err := Up("postgres://localhost/app", fsys, "missing", "t"); err == nil {
		t.Fatalf("expected error for missing migrations dir")
	}
}

func TestUpIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping migration integration test")
	}
	fsys := fstest.MapFS{
		"sql/000001_sample.up.sql":   {Data: []byte("CREATE TABLE IF NOT EXISTS migrations_sample (id INT);")},
		"sql/000001_sample.down.sql": {Data: []byte("DROP TABLE IF EXISTS migrations_sample;")},
	}
	if err := Up(dsn, fsys, "sql", "sample_schema_migrations"); err != nil {
		t.Fatalf("up: %v", err)
	}
	if err := Up(dsn, fsys, "sql", "sample_schema_migrations"); err != nil {
		t.Fatalf("second up should be a no-op: %v", err)
	}
	if err := Down(dsn, fsys, "sql", "sample_schema_migrations"); err != nil {
		t.Fatalf("down: %v", err)
	}
}
