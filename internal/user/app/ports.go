package app

import (
	"context"
	"errors"

	"github.com/qkartio/cart-service/internal/user/domain"
)

var ErrNotFound = errors.New("user not found")

type UserRepo interface {
	// Get returns ErrNotFound for unknown emails.
	Get(ctx context.Context, email string) (domain.User, error)
	Save(ctx context.Context, u domain.User) (domain.User, error)
}
