package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	// FindOrCreate returns the account with the given number, inserting it with label if absent.
	// It must be atomic per number.
	FindOrCreate(ctx context.Context, number, label string) (*Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve maps an account number to its Account, creating it on first sight
// with the number as label.
func (s *Service) Resolve(ctx context.Context, number string) (*Account, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("resolve account: empty account number")
	}

	acc, err := s.repo.FindOrCreate(ctx, number, number)
	if err != nil {
		return nil, fmt.Errorf("resolve account %s: %w", number, err)
	}

	return acc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Account, error) {
	return s.repo.ListAccounts(ctx)
}
