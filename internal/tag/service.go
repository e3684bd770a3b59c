package tag

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tag
type Repository interface {
	// FindOrCreate returns the tag with the given name, creating it if absent.
	// The label is written only when the stored label is empty.
	FindOrCreate(ctx context.Context, name, label string) (*Tag, error)
	ListTags(ctx context.Context) ([]*Tag, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Ensure(ctx context.Context, spec Spec) (*Tag, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("ensure tag: empty name")
	}

	t, err := s.repo.FindOrCreate(ctx, spec.Name, spec.Label)
	if err != nil {
		return nil, fmt.Errorf("ensure tag %s: %w", spec.Name, err)
	}

	return t, nil
}

func (s *Service) List(ctx context.Context) ([]*Tag, error) {
	return s.repo.ListTags(ctx)
}
