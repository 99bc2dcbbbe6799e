package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/qkartio/cart-service/internal/apperr"
	"github.com/qkartio/cart-service/internal/cart/domain"
	"golang.org/x/sync/errgroup"
)

type QuoteLine struct {
	ProductID     string
	Name          string
	Quantity      int64
	SnapshotPrice domain.Money
	CurrentPrice  domain.Money
	LineTotal     domain.Money
}

// Quote re-prices the cart against the live catalog. SnapshotTotal is what
// checkout would charge; CurrentTotal is what the same cart would cost if
// every line were re-added today.
type Quote struct {
	Lines         []QuoteLine
	SnapshotTotal domain.Money
	CurrentTotal  domain.Money
}

// Quote is read-only: it never touches the stored cart or the wallet.
// Catalog lookups fan out concurrently, bounded by quoteConcurrency.
func (s *Service) Quote(ctx context.Context, owner string) (Quote, error) {
	cart, err := s.carts.FindByOwner(ctx, owner)
	if errors.Is(err, ErrCartNotFound) {
		return Quote{}, apperr.New(apperr.CodeNotFound, "User does not have a cart")
	}
	if err != nil {
		return Quote{}, fmt.Errorf("carts.FindByOwner: %w", err)
	}

	if cart.IsEmpty() {
		return Quote{}, apperr.New(apperr.CodeInvalidRequest, "Cart is empty")
	}

	lines := make([]QuoteLine, len(cart.Lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.quoteConcurrency)

	for idx := range cart.Lines {
		g.Go(func() error {
			line := cart.Lines[idx]

			product, err := s.catalog.FindByID(gctx, line.Product.ID)
			if errors.Is(err, ErrProductNotFound) {
				return apperr.New(apperr.CodeInvalidRequest, "Product doesn't exist in database")
			}
			if err != nil {
				return fmt.Errorf("catalog.FindByID %s: %w", line.Product.ID, err)
			}

			lines[idx] = QuoteLine{
				ProductID:     product.ID,
				Name:          product.Name,
				Quantity:      line.Quantity,
				SnapshotPrice: line.Product.Price,
				CurrentPrice:  product.Price,
				LineTotal: domain.Money{
					Currency: product.Price.Currency,
					Amount:   product.Price.Amount * line.Quantity,
				},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Quote{}, err
	}

	snapshotTotal, err := cart.Total()
	if err != nil {
		return Quote{}, apperr.Wrap(err, apperr.CodeInvalidRequest, "Cart has products in more than one currency")
	}

	currentTotal := domain.Money{Currency: lines[0].LineTotal.Currency}
	for _, line := range lines {
		if line.LineTotal.Currency != currentTotal.Currency {
			return Quote{}, apperr.Wrap(domain.ErrMixedCurrencies, apperr.CodeInvalidRequest,
				"Cart has products in more than one currency")
		}
		currentTotal.Amount += line.LineTotal.Amount
	}

	return Quote{
		Lines:         lines,
		SnapshotTotal: snapshotTotal,
		CurrentTotal:  currentTotal,
	}, nil
}
