package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teenxsky/wb-analytics/internal/model"
	"github.com/teenxsky/wb-analytics/internal/query"
)

// ErrNotFound is returned when a product id has no row.
var ErrNotFound = errors.New("product not found")

const productColumns = "id, name, price, discounted_price, rating, reviews_count, created_at"

type ProductRepository struct {
	DB *pgxpool.Pool
}

// Upsert stores a normalized product. Identity is the full set of normalized
// fields: a row matching on every field is left untouched, anything else is
// inserted as new. Reports whether a row was created.
func (r *ProductRepository) Upsert(ctx context.Context, p model.Product) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM products
			WHERE name = $1 AND price = $2 AND discounted_price = $3
			  AND rating = $4 AND reviews_count = $5
		)`,
		p.Name, p.Price, p.DiscountedPrice, p.Rating, p.ReviewsCount,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("match product: %w", err)
	}
	if exists {
		return false, nil
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO products (name, price, discounted_price, rating, reviews_count)
		VALUES ($1, $2, $3, $4, $5)`,
		p.Name, p.Price, p.DiscountedPrice, p.Rating, p.ReviewsCount,
	)
	if err != nil {
		return false, fmt.Errorf("insert product: %w", err)
	}
	return true, nil
}

// List executes a query plan. limit <= 0 means no limit.
func (r *ProductRepository) List(ctx context.Context, plan query.Plan, limit, offset int) ([]model.Product, error) {
	sql := "SELECT " + productColumns + " FROM products" + plan.WhereSQL() + plan.OrderSQL()
	if limit > 0 {
		sql += " LIMIT " + strconv.Itoa(limit) + " OFFSET " + strconv.Itoa(offset)
	}

	rows, err := r.DB.Query(ctx, sql, plan.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DiscountedPrice, &p.Rating, &p.ReviewsCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) Count(ctx context.Context, plan query.Plan) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, "SELECT count(*) FROM products"+plan.WhereSQL(), plan.Args()...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.DB.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id).
		Scan(&p.ID, &p.Name, &p.Price, &p.DiscountedPrice, &p.Rating, &p.ReviewsCount, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}
