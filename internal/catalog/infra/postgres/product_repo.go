package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qkartio/cart-service/internal/catalog/app"
	"github.com/qkartio/cart-service/internal/catalog/domain"
)

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	const q = `
INSERT INTO products (name, description, currency, price_amount)
VALUES ($1, $2, $3, $4)
RETURNING id::text, name, description, currency, price_amount, created_at, updated_at`

	row := r.pool.QueryRow(ctx, q, p.Name, p.Description, p.Price.Currency, p.Price.Amount)

	product, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	const q = `
SELECT id::text, name, description, currency, price_amount, created_at, updated_at
FROM products
WHERE id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, q, prodID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("query product: %w", err)
	}

	return product, nil
}

// List pages by id cursor, newest ids excluded; an empty next cursor means
// the last page.
func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	var cur uuid.NullUUID
	if strings.TrimSpace(cursor) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(cursor))
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		cur = uuid.NullUUID{UUID: uid, Valid: true}
	}

	const q = `
SELECT id::text, name, description, currency, price_amount, created_at, updated_at
FROM products
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
  AND ($3::uuid IS NULL OR id > $3::uuid)
ORDER BY id
LIMIT $2`

	rows, err := r.pool.Query(ctx, q, strings.TrimSpace(query), limit, cur)
	if err != nil {
		return nil, "", fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scan product: %w", err)
		}
		out = append(out, product)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate products: %w", err)
	}

	var nextCursor string
	if len(out) == limit {
		nextCursor = out[len(out)-1].ID
	}

	return out, nextCursor, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price.Currency,
		&p.Price.Amount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
