package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/example/aurora-storefront/internal/domain"
)

// PostgresCatalogRepo — чтение товаров, хранящихся как jsonb.
type PostgresCatalogRepo struct {
	Pool *pgxpool.Pool
}

func NewPostgresCatalogRepo(pool *pgxpool.Pool) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{Pool: pool}
}

func (r *PostgresCatalogRepo) LoadAll(ctx context.Context, fn func(id string, raw []byte) error) error {
	rows, err := r.Pool.Query(ctx, `SELECT product_id, payload FROM products ORDER BY position, product_id`)
	if err != nil {
		return errors.Wrap(err, "query products")
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return errors.Wrap(err, "scan product")
		}
		if err := fn(id, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Insert — сохранить товар на позиции position, заменив прежний.
func (r *PostgresCatalogRepo) Insert(ctx context.Context, position int, id string, raw []byte) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO products(product_id, position, payload) VALUES($1, $2, $3)
        ON CONFLICT (product_id) DO UPDATE SET position = EXCLUDED.position, payload = EXCLUDED.payload`, id, position, raw)
	return errors.Wrapf(err, "insert product %s", id)
}

// PostgresOrderRepo — архив оформленных заказов; витрина их не читает.
type PostgresOrderRepo struct {
	Pool *pgxpool.Pool
}

func NewPostgresOrderRepo(pool *pgxpool.Pool) *PostgresOrderRepo {
	return &PostgresOrderRepo{Pool: pool}
}

func (r *PostgresOrderRepo) Upsert(ctx context.Context, id string, raw []byte) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO orders(order_id, payload) VALUES($1, $2)
        ON CONFLICT (order_id) DO UPDATE SET payload = EXCLUDED.payload`, id, raw)
	return errors.Wrapf(err, "upsert order %s", id)
}

var (
	_ domain.CatalogSource = (*PostgresCatalogRepo)(nil)
	_ domain.OrderArchive  = (*PostgresOrderRepo)(nil)
)

// EnsureSchema — создать таблицы products и orders, если отсутствуют.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS products (
  product_id text PRIMARY KEY,
  position int NOT NULL DEFAULT 0,
  payload jsonb NOT NULL
);
CREATE TABLE IF NOT EXISTS orders (
  order_id text PRIMARY KEY,
  payload jsonb NOT NULL,
  created_at timestamptz NOT NULL DEFAULT now()
);`)
	return errors.Wrap(err, "ensure schema")
}
