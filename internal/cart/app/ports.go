package app

import (
	"context"
	"errors"

	"github.com/qkartio/cart-service/internal/cart/domain"
)

// Storage-level sentinels. The service translates them into the coded
// errors callers see.
var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

type CartStore interface {
	// FindByOwner returns ErrCartNotFound when the owner has no cart.
	FindByOwner(ctx context.Context, owner string) (domain.Cart, error)
	// Create makes an empty cart for owner. Creating an already existing
	// cart is not an error; the existing cart is returned.
	Create(ctx context.Context, owner string) (domain.Cart, error)
	// Save replaces the stored cart with the given one, preserving line order.
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)
}

// CheckoutStore commits a checkout: debit the owner's wallet by total and
// clear the cart, atomically. Returns ErrInsufficientFunds when the balance
// dropped below total since it was last read.
type CheckoutStore interface {
	Commit(ctx context.Context, owner string, total domain.Money) error
}

// CatalogReader looks up live products. Returns ErrProductNotFound for
// unknown ids.
type CatalogReader interface {
	FindByID(ctx context.Context, productID string) (domain.ProductSnapshot, error)
}

// Shopper is the slice of the user directory checkout needs.
type Shopper struct {
	Key         string
	WalletMoney int64
	AddressSet  bool
}

type UserReader interface {
	FindByKey(ctx context.Context, key string) (Shopper, error)
}
