package app

import (
	"context"
	"errors"
	"strings"

	"github.com/qkartio/cart-service/internal/catalog/domain"
	"golang.org/x/text/currency"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Service is the read-mostly product catalog. The cart core treats it as an
// external collaborator and never writes through it.
type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, name, desc, curr string, amount int64) (domain.Product, error) {
	name = strings.TrimSpace(name)
	curr = strings.TrimSpace(curr)

	if name == "" || amount <= 0 {
		return domain.Product{}, ErrInvalidInput
	}

	unit, err := currency.ParseISO(curr)
	if err != nil {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Name:        name,
		Description: desc,
		Price: domain.Money{
			Currency: unit.String(),
			Amount:   amount,
		},
	}

	product, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}
