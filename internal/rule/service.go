package rule

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/MrJamesThe3rd/scrooge/internal/processor"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rule
type Repository interface {
	CreateRule(ctx context.Context, r *Rule) error
	// ListRules returns rules oldest first.
	ListRules(ctx context.Context) ([]*Rule, error)
	// FindMatch returns the rule with the longest pattern contained in description,
	// or ErrNotFound.
	FindMatch(ctx context.Context, description string) (*Rule, error)
}

type Service struct {
	repo Repository
	base *processor.Chain
}

// NewService returns a service whose chains run the learned rules after base.
func NewService(repo Repository, base *processor.Chain) *Service {
	return &Service{repo: repo, base: base}
}

// Learn stores a rule tagging descriptions containing pattern with t.
func (s *Service) Learn(ctx context.Context, pattern string, t tag.Spec) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || t.Name == "" {
		return nil, fmt.Errorf("learn rule: pattern and tag name are required")
	}

	r := &Rule{Pattern: pattern, TagName: t.Name, TagLabel: t.Label}
	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, fmt.Errorf("learn rule: %w", err)
	}

	return r, nil
}

func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}

// Suggest returns the tag the best matching rule would attach to description.
func (s *Service) Suggest(ctx context.Context, description string) (*Rule, error) {
	return s.repo.FindMatch(ctx, description)
}

// Chain builds the processor chain: the base chain followed by every stored rule.
func (s *Service) Chain(ctx context.Context) (*processor.Chain, error) {
	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	extra := make([]processor.Processor, 0, len(rules))

	for _, r := range rules {
		p, err := r.Processor()
		if err != nil {
			return nil, err
		}

		extra = append(extra, p)
	}

	return s.base.With(extra...)
}

// Processor turns r into a processor matching its pattern literally.
func (r *Rule) Processor() (*processor.Rule, error) {
	return processor.NewRule(processor.RuleConfig{
		Name:    "rule:" + r.ID.String(),
		Tag:     tag.Spec{Name: r.TagName, Label: r.TagLabel},
		Needles: []string{regexp.QuoteMeta(r.Pattern)},
	})
}
