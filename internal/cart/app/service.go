package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/qkartio/cart-service/internal/apperr"
	"github.com/qkartio/cart-service/internal/cart/domain"
)

// Service owns the cart lifecycle: fetch, add, update, remove, checkout.
// The owner key always comes from the authenticated identity; it is the
// caller's job to never pass through an owner key taken from request input.
// All mutations for one owner are serialized through a keyed mutex.
type Service struct {
	carts    CartStore
	checkout CheckoutStore
	catalog  CatalogReader
	users    UserReader

	locks            keyedMutex
	quoteConcurrency int
}

func NewService(carts CartStore, checkout CheckoutStore, catalog CatalogReader, users UserReader, quoteConcurrency int) *Service {
	if quoteConcurrency <= 0 {
		quoteConcurrency = 10
	}

	return &Service{
		carts:            carts,
		checkout:         checkout,
		catalog:          catalog,
		users:            users,
		quoteConcurrency: quoteConcurrency,
	}
}

// GetCart returns the owner's cart. It never creates one.
func (s *Service) GetCart(ctx context.Context, owner string) (domain.Cart, error) {
	cart, err := s.carts.FindByOwner(ctx, owner)
	if errors.Is(err, ErrCartNotFound) {
		return domain.Cart{}, apperr.New(apperr.CodeNotFound, "User does not have a cart")
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.FindByOwner: %w", err)
	}

	return cart, nil
}

// AddProduct appends a new line holding a snapshot of the product as priced
// right now. Adding a product that is already in the cart is rejected, it
// never merges quantities.
func (s *Service) AddProduct(ctx context.Context, owner, productID string, quantity int64) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Quantity must be greater than zero")
	}

	defer s.locks.lock(owner)()

	cart, err := s.carts.FindByOwner(ctx, owner)
	if errors.Is(err, ErrCartNotFound) {
		cart, err = s.carts.Create(ctx, owner)
		if err != nil {
			return domain.Cart{}, apperr.Wrap(err, apperr.CodeInternal, "Internal server error")
		}
	} else if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.FindByOwner: %w", err)
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Product doesn't exist in database")
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("catalog.FindByID: %w", err)
	}

	if cart.LineIndex(productID) >= 0 {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest,
			"Product already in cart. Use the cart sidebar to update or remove product from cart")
	}

	cart.Lines = append(cart.Lines, domain.CartLine{Product: product, Quantity: quantity})

	saved, err := s.carts.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.Save: %w", err)
	}

	return saved, nil
}

// UpdateProduct replaces the quantity of an existing line. The product
// snapshot, including its frozen price, stays untouched.
func (s *Service) UpdateProduct(ctx context.Context, owner, productID string, quantity int64) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Quantity must be greater than zero")
	}

	defer s.locks.lock(owner)()

	cart, err := s.carts.FindByOwner(ctx, owner)
	if errors.Is(err, ErrCartNotFound) {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest,
			"User does not have a cart. Use POST to create cart and add a product")
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.FindByOwner: %w", err)
	}

	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Product doesn't exist in database")
		}
		return domain.Cart{}, fmt.Errorf("catalog.FindByID: %w", err)
	}

	idx := cart.LineIndex(productID)
	if idx < 0 {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Product not in cart")
	}

	cart.Lines[idx].Quantity = quantity

	saved, err := s.carts.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.Save: %w", err)
	}

	return saved, nil
}

// RemoveProduct deletes a line, keeping the relative order of the rest.
func (s *Service) RemoveProduct(ctx context.Context, owner, productID string) error {
	defer s.locks.lock(owner)()

	cart, err := s.carts.FindByOwner(ctx, owner)
	if errors.Is(err, ErrCartNotFound) {
		return apperr.New(apperr.CodeInvalidRequest, "User does not have a cart")
	}
	if err != nil {
		return fmt.Errorf("carts.FindByOwner: %w", err)
	}

	idx := cart.LineIndex(productID)
	if idx < 0 {
		return apperr.New(apperr.CodeInvalidRequest, "Product not in cart")
	}

	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)

	if _, err := s.carts.Save(ctx, cart); err != nil {
		return fmt.Errorf("carts.Save: %w", err)
	}

	return nil
}

// Checkout runs the checks strictly in order and applies no effect before
// the final commit: cart exists, cart non-empty, address set, wallet covers
// the snapshot total. The commit debits the wallet and clears the cart as
// one transaction.
func (s *Service) Checkout(ctx context.Context, owner string) (domain.Cart, error) {
	defer s.locks.lock(owner)()

	cart, err := s.carts.FindByOwner(ctx, owner)
	if errors.Is(err, ErrCartNotFound) {
		return domain.Cart{}, apperr.New(apperr.CodeNotFound, "User does not have a cart")
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.FindByOwner: %w", err)
	}

	if cart.IsEmpty() {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Cart is empty. Add products before checking out")
	}

	shopper, err := s.users.FindByKey(ctx, owner)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("users.FindByKey: %w", err)
	}

	if !shopper.AddressSet {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Address not set. Set a delivery address before checking out")
	}

	total, err := cart.Total()
	if err != nil {
		return domain.Cart{}, apperr.Wrap(err, apperr.CodeInvalidRequest, "Cart has products in more than one currency")
	}

	if shopper.WalletMoney < total.Amount {
		return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Wallet balance is insufficient to place order")
	}

	if err := s.checkout.Commit(ctx, owner, total); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return domain.Cart{}, apperr.New(apperr.CodeInvalidRequest, "Wallet balance is insufficient to place order")
		}
		return domain.Cart{}, fmt.Errorf("checkout.Commit: %w", err)
	}

	emptied, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.FindByOwner: %w", err)
	}

	return emptied, nil
}
