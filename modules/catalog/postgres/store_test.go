package postgres

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/modulith/internal/platform/migrations"
	"github.com/R3E-Network/modulith/modules/catalog/app"
	"github.com/R3E-Network/modulith/modules/catalog/domain"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "postgres")), mock
}

func TestSaveUpsertsProduct(t *testing.T) {
	store, mock := newMock(t)
	p := domain.CreateProduct("Widget", 9.99).Value().Entity

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO catalog_products (id, name, price)")).
		WithArgs(p.ID().String(), "Widget", 9.99).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWrapsDriverErrors(t *testing.T) {
	store, mock := newMock(t)
	p := domain.CreateProduct("Widget", 1).Value().Entity
	boom := errors.New("connection reset")

	mock.ExpectExec("INSERT INTO catalog_products").WillReturnError(boom)

	err := store.Save(context.Background(), p)
	require.ErrorIs(t, err, boom)
}

func TestGetReturnsProduct(t *testing.T) {
	store, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, price FROM catalog_products WHERE id = \\$1").
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow(id.String(), "Widget", 9.99))

	p, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID())
	assert.Equal(t, "Widget", p.Name())
	assert.Equal(t, 9.99, p.Price())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingProduct(t *testing.T) {
	store, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, price FROM catalog_products").
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}))

	_, err := store.Get(context.Background(), id)
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	require.NoError(t, migrations.Up(dsn, Migrations, "migrations", MigrationsTable))

	db, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	store := New(db)
	ctx := context.Background()
	for _, price := range []float64{12.5, 0.12345, 1234567.891011} {
		p := domain.CreateProduct("Integration widget", price).Value().Entity
		require.NoError(t, store.Save(ctx, p))

		got, err := store.Get(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, "Integration widget", got.Name())
		assert.Equal(t, price, got.Price(), "price must round-trip exactly")
	}
}

// The memory store keeps prices exactly, so the column must not round them.
func TestSchemaKeepsPriceScale(t *testing.T) {
	raw, err := Migrations.ReadFile("migrations/000001_create_catalog_products.up.sql")
	require.NoError(t, err)

	priceColumn := regexp.MustCompile(`(?m)^\s*price\s+(\S+)`).FindStringSubmatch(string(raw))
	require.Len(t, priceColumn, 2)
	assert.Equal(t, "NUMERIC", priceColumn[1])
}
