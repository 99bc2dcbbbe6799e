package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qkartio/cart-service/internal/cart/app"
	"github.com/qkartio/cart-service/internal/cart/domain"
)

// Store persists carts in Postgres and implements both app.CartStore and
// app.CheckoutStore. Checkout's wallet debit and cart clear run in one
// transaction.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const findCartSQL = `
SELECT owner, created_at, updated_at
FROM carts
WHERE owner = $1`

const listLinesSQL = `
SELECT product_id::text, product_name, product_description, currency, price_amount, quantity
FROM cart_lines
WHERE cart_owner = $1
ORDER BY position`

func (s *Store) FindByOwner(ctx context.Context, owner string) (domain.Cart, error) {
	if owner == "" {
		return domain.Cart{}, fmt.Errorf("owner is empty")
	}

	var cart domain.Cart
	err := s.pool.QueryRow(ctx, findCartSQL, owner).Scan(&cart.Owner, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, app.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query cart: %w", err)
	}

	rows, err := s.pool.Query(ctx, listLinesSQL, owner)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.Product.ID,
			&line.Product.Name,
			&line.Product.Description,
			&line.Product.Price.Currency,
			&line.Product.Price.Amount,
			&line.Quantity,
		); err != nil {
			return domain.Cart{}, fmt.Errorf("scan cart line: %w", err)
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("iterate cart lines: %w", err)
	}

	return cart, nil
}

func (s *Store) Create(ctx context.Context, owner string) (domain.Cart, error) {
	if owner == "" {
		return domain.Cart{}, fmt.Errorf("owner is empty")
	}

	// A concurrent create for the same owner is not an error, the existing
	// cart wins.
	_, err := s.pool.Exec(ctx,
		`INSERT INTO carts (owner) VALUES ($1) ON CONFLICT (owner) DO NOTHING`, owner)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("insert cart: %w", err)
	}

	return s.FindByOwner(ctx, owner)
}

func (s *Store) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.Owner == "" {
		return domain.Cart{}, fmt.Errorf("owner is empty")
	}

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
INSERT INTO carts (owner) VALUES ($1)
ON CONFLICT (owner) DO UPDATE SET updated_at = now()`, cart.Owner); err != nil {
			return fmt.Errorf("upsert cart: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM cart_lines WHERE cart_owner = $1`, cart.Owner); err != nil {
			return fmt.Errorf("delete cart lines: %w", err)
		}

		for i, line := range cart.Lines {
			if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_owner, product_id, product_name, product_description, currency, price_amount, quantity, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				cart.Owner,
				line.Product.ID,
				line.Product.Name,
				line.Product.Description,
				line.Product.Price.Currency,
				line.Product.Price.Amount,
				line.Quantity,
				i,
			); err != nil {
				return fmt.Errorf("insert cart line %s: %w", line.Product.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return s.FindByOwner(ctx, cart.Owner)
}

// Commit debits the wallet and clears the cart in one transaction. The
// balance condition is re-checked inside the UPDATE so a racing debit can
// never drive the wallet negative.
func (s *Store) Commit(ctx context.Context, owner string, total domain.Money) error {
	if owner == "" {
		return fmt.Errorf("owner is empty")
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
UPDATE users
SET wallet_money = wallet_money - $2, updated_at = now()
WHERE email = $1 AND wallet_money >= $2`, owner, total.Amount)
		if err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return app.ErrInsufficientFunds
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM cart_lines WHERE cart_owner = $1`, owner); err != nil {
			return fmt.Errorf("clear cart lines: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE carts SET updated_at = now() WHERE owner = $1`, owner); err != nil {
			return fmt.Errorf("touch cart: %w", err)
		}

		return nil
	})
}

func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (txErr error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
