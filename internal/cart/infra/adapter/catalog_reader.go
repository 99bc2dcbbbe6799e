package adapter

import (
	"context"
	"errors"
	"fmt"

	cartapp "github.com/qkartio/cart-service/internal/cart/app"
	cartdomain "github.com/qkartio/cart-service/internal/cart/domain"
	catalogapp "github.com/qkartio/cart-service/internal/catalog/app"
)

// CatalogServiceReader adapts the catalog service to the cart core's
// CatalogReader port, snapshotting products at read time.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) FindByID(ctx context.Context, productID string) (cartdomain.ProductSnapshot, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return cartdomain.ProductSnapshot{}, cartapp.ErrProductNotFound
	}
	if err != nil {
		return cartdomain.ProductSnapshot{}, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	return cartdomain.ProductSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price: cartdomain.Money{
			Currency: p.Price.Currency,
			Amount:   p.Price.Amount,
		},
	}, nil
}
