package processor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

// ChainSource supplies the chain for a run. *Chain is its own source.
type ChainSource interface {
	Chain(ctx context.Context) (*Chain, error)
}

func (c *Chain) Chain(context.Context) (*Chain, error) {
	return c, nil
}

type TagEnsurer interface {
	Ensure(ctx context.Context, spec tag.Spec) (*tag.Tag, error)
}

// TagLinker persists tag links. All tags of one call must be stored together or not at all.
type TagLinker interface {
	AddTags(ctx context.Context, id uuid.UUID, tags []*tag.Tag) error
}

type Runner struct {
	chain  ChainSource
	tags   TagEnsurer
	links  TagLinker
	logger *slog.Logger
}

func NewRunner(chain ChainSource, tags TagEnsurer, links TagLinker, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{chain: chain, tags: tags, links: links, logger: logger}
}

// Run applies the chain to a stored transaction front to back. Later processors see the
// tags added by earlier ones. New tags are persisted in one call after the whole chain
// matched; on any error nothing is persisted and tx is left unchanged.
func (r *Runner) Run(ctx context.Context, tx *transaction.Transaction) error {
	chain, err := r.chain.Chain(ctx)
	if err != nil {
		return fmt.Errorf("load processor chain: %w", err)
	}

	work := *tx
	work.Tags = slices.Clone(tx.Tags)

	var added []*tag.Tag

	for _, p := range chain.processors {
		spec, ok := p.Match(&work)
		if !ok || work.HasTag(spec.Name) {
			continue
		}

		t, err := r.tags.Ensure(ctx, spec)
		if err != nil {
			return fmt.Errorf("processor %s: %w", p.Name(), err)
		}

		work.AddTag(t)
		added = append(added, t)
	}

	if len(added) == 0 {
		return nil
	}

	if err := r.links.AddTags(ctx, tx.ID, added); err != nil {
		return fmt.Errorf("processor chain: %w", err)
	}

	tx.Tags = work.Tags

	r.logger.Debug("tagged transaction", "id", tx.ID, "tags", tx.TagNames())

	return nil
}
