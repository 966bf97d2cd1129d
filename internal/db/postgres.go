package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

func New(url string) (*sql.DB, error) {
	return sql.Open("postgres", url)
}

func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id               bigserial PRIMARY KEY,
	name             varchar(512) NOT NULL,
	price            numeric(12,2) NOT NULL,
	discounted_price numeric(12,2) NOT NULL,
	rating           double precision NOT NULL,
	reviews_count    integer NOT NULL,
	created_at       timestamptz NOT NULL DEFAULT now()
)`

// EnsureSchema creates the products table if it does not exist yet.
// created_at is assigned by the database on insert and never updated.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
