package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qkartio/cart-service/internal/apperr"
	"github.com/qkartio/cart-service/internal/user/domain"
)

const minAddressLength = 20

// Service is the user directory: wallet balance and shipping address.
// Registration and authentication live upstream.
type Service struct {
	repo UserRepo
}

func NewService(repo UserRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// FindByKey is the collaborator-facing read. No ownership check, the caller
// already holds an authenticated identity.
func (s *Service) FindByKey(ctx context.Context, key string) (domain.User, error) {
	return s.repo.Get(ctx, key)
}

// GetUser returns the user's own record. Requesting someone else's record
// is forbidden and deliberately indistinguishable from a missing user.
func (s *Service) GetUser(ctx context.Context, requester, email string) (domain.User, error) {
	user, err := s.repo.Get(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return domain.User{}, apperr.New(apperr.CodeNotFound, "User not found")
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.Get: %w", err)
	}

	if requester != user.Email {
		return domain.User{}, apperr.New(apperr.CodeForbidden, "User not found")
	}

	return user, nil
}

// SetAddress replaces the user's shipping address. Only the user may change
// their own address, and it must be long enough to be deliverable.
func (s *Service) SetAddress(ctx context.Context, requester, email, address string) (string, error) {
	user, err := s.repo.Get(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", apperr.New(apperr.CodeNotFound, "User not found")
	}
	if err != nil {
		return "", fmt.Errorf("repo.Get: %w", err)
	}

	if requester != user.Email {
		return "", apperr.New(apperr.CodeForbidden, "User not authorized to access this resource")
	}

	if len(strings.TrimSpace(address)) < minAddressLength {
		return "", apperr.New(apperr.CodeInvalidRequest, "Address field must be at least 20 characters long")
	}

	user.Address = address
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return "", fmt.Errorf("repo.Save: %w", err)
	}

	return saved.Address, nil
}
