package adapter

import (
	"context"
	"errors"
	"fmt"

	cartapp "github.com/qkartio/cart-service/internal/cart/app"
	userapp "github.com/qkartio/cart-service/internal/user/app"
)

// UserServiceReader adapts the user directory to the cart core's UserReader
// port, exposing only what checkout needs.
type UserServiceReader struct {
	svc *userapp.Service
}

func NewUserServiceReader(svc *userapp.Service) *UserServiceReader {
	return &UserServiceReader{svc: svc}
}

func (r *UserServiceReader) FindByKey(ctx context.Context, key string) (cartapp.Shopper, error) {
	u, err := r.svc.FindByKey(ctx, key)
	if errors.Is(err, userapp.ErrNotFound) {
		return cartapp.Shopper{}, cartapp.ErrUserNotFound
	}
	if err != nil {
		return cartapp.Shopper{}, fmt.Errorf("users.FindByKey: %w", err)
	}

	return cartapp.Shopper{
		Key:         u.Email,
		WalletMoney: u.WalletMoney,
		AddressSet:  u.HasSetNonDefaultAddress(),
	}, nil
}
