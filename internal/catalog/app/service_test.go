package app

import (
	"context"
	"testing"

	"github.com/qkartio/cart-service/internal/catalog/domain"
)

type fakeRepo struct{}

func (fakeRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) { return p, nil }
func (fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{}, nil
}
func (fakeRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	return nil, "", nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(fakeRepo{})

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "   ", "x", "INR", 100)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative amount -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "Keyboard", "x", "INR", -1)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("non-ISO currency -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "Keyboard", "x", "COINS", 100)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("valid input -> normalized currency", func(t *testing.T) {
		p, err := svc.CreateProduct(context.Background(), " Keyboard ", "mechanical", "inr", 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "Keyboard" || p.Price.Currency != "INR" || p.Price.Amount != 100 {
			t.Fatalf("unexpected product: %+v", p)
		}
	})
}

func TestGetProductValidation(t *testing.T) {
	svc := NewService(fakeRepo{})

	if _, err := svc.GetProduct(context.Background(), "  "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
