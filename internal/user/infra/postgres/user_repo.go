package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qkartio/cart-service/internal/user/app"
	"github.com/qkartio/cart-service/internal/user/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Get(ctx context.Context, email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, fmt.Errorf("email is empty")
	}

	const q = `
SELECT email, name, wallet_money, address, created_at, updated_at
FROM users
WHERE email = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&u.Email,
		&u.Name,
		&u.WalletMoney,
		&u.Address,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, app.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("query user: %w", err)
	}

	return u, nil
}

func (r *UserRepo) Save(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Email == "" {
		return domain.User{}, fmt.Errorf("email is empty")
	}

	const q = `
UPDATE users
SET name = $2, wallet_money = $3, address = $4, updated_at = now()
WHERE email = $1
RETURNING email, name, wallet_money, address, created_at, updated_at`

	var saved domain.User
	err := r.pool.QueryRow(ctx, q, u.Email, u.Name, u.WalletMoney, u.Address).Scan(
		&saved.Email,
		&saved.Name,
		&saved.WalletMoney,
		&saved.Address,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, app.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}

	return saved, nil
}
