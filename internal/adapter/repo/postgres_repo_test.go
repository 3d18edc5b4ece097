package repo

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB needs a disposable database in TEST_DATABASE_URL; both tables are emptied.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, "DELETE FROM products")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "DELETE FROM orders")
	require.NoError(t, err)
	return pool
}

func TestCatalogRepoKeepsPosition(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	r := NewPostgresCatalogRepo(pool)

	require.NoError(t, r.Insert(ctx, 2, "AUR-002", []byte(`{"productId":"AUR-002","price":89.99}`)))
	require.NoError(t, r.Insert(ctx, 1, "AUR-001", []byte(`{"productId":"AUR-001","price":39.99}`)))
	require.NoError(t, r.Insert(ctx, 1, "AUR-001", []byte(`{"productId":"AUR-001","price":35}`)))

	var ids []string
	var last string
	err := r.LoadAll(ctx, func(id string, raw []byte) error {
		ids = append(ids, id)
		if id == "AUR-001" {
			last = string(raw)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AUR-001", "AUR-002"}, ids)
	assert.JSONEq(t, `{"productId":"AUR-001","price":35}`, last)
}

func TestOrderRepoUpsert(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	r := NewPostgresOrderRepo(pool)

	require.NoError(t, r.Upsert(ctx, "ORD-1", []byte(`{"id":"ORD-1","revenue":10}`)))
	require.NoError(t, r.Upsert(ctx, "ORD-1", []byte(`{"id":"ORD-1","revenue":12}`)))

	var n int
	var revenue float64
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*), max((payload->>'revenue')::float8) FROM orders`).Scan(&n, &revenue))
	assert.Equal(t, 1, n)
	assert.Equal(t, 12.0, revenue)
}
