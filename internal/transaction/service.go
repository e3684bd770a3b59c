package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/tag"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// CreateTransaction inserts tx and fills its ID and timestamps.
	// It returns ErrDuplicate when tx.RemoteID is already stored.
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	// AddTags links the tags to the transaction in one unit. Existing links are kept.
	AddTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	AccountID *uuid.UUID
	Tag       *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, tx *Transaction) error {
	if tx.OwnAccount == nil {
		return fmt.Errorf("create transaction: missing own account")
	}

	return s.repo.CreateTransaction(ctx, tx)
}

// Exists reports whether a transaction with the given remote id is stored.
func (s *Service) Exists(ctx context.Context, remoteID string) (bool, error) {
	_, err := s.repo.FindByRemoteID(ctx, remoteID)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return false, fmt.Errorf("find by remote id: %w", err)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Update saves manual changes. Imported transactions belong to their importer and are refused.
func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	if tx.IsImported() {
		return ErrImmutable
	}

	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) AddTags(ctx context.Context, id uuid.UUID, tags []*tag.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}

	if err := s.repo.AddTags(ctx, id, ids); err != nil {
		return fmt.Errorf("adding tags to %s: %w", id, err)
	}

	return nil
}
