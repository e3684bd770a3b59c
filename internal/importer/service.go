// Package importer turns bank export files into stored, tagged transactions.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/MrJamesThe3rd/scrooge/internal/account"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

// TransactionStore is the part of transaction.Service the pipeline needs.
type TransactionStore interface {
	Exists(ctx context.Context, remoteID string) (bool, error)
	Create(ctx context.Context, tx *transaction.Transaction) error
}

type AccountResolver interface {
	Resolve(ctx context.Context, number string) (*account.Account, error)
}

// Tagger classifies a stored transaction.
type Tagger interface {
	Run(ctx context.Context, tx *transaction.Transaction) error
}

// Result summarizes an Ingest call. Skipped counts rows that were already stored.
type Result struct {
	Imported int
	Skipped  int
}

type Service struct {
	registry *Registry
	txs      TransactionStore
	accounts AccountResolver
	tagger   Tagger
	logger   *slog.Logger
}

// NewService wires the pipeline. tagger may be nil to store transactions untagged.
func NewService(registry *Registry, txs TransactionStore, accounts AccountResolver, tagger Tagger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		registry: registry,
		txs:      txs,
		accounts: accounts,
		tagger:   tagger,
		logger:   logger,
	}
}

func (s *Service) Formats() []string {
	return s.registry.Names()
}

// Transactions reads r in the given format and lazily yields the transactions that are not
// stored yet, in file order. Nothing is persisted. The sequence yields at most one error and
// stops there; it can be ranged over once.
func (s *Service) Transactions(ctx context.Context, format string, r io.Reader) (iter.Seq2[*transaction.Transaction, error], error) {
	return s.transactions(ctx, format, r, &Result{})
}

func (s *Service) transactions(ctx context.Context, format string, r io.Reader, res *Result) (iter.Seq2[*transaction.Transaction, error], error) {
	f, err := s.registry.Get(format)
	if err != nil {
		return nil, err
	}

	src, err := f.Open(r)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", format, err)
	}

	return func(yield func(*transaction.Transaction, error) bool) {
		for rec, err := range src.Records() {
			if err != nil {
				yield(nil, err)
				return
			}

			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			remoteID := RemoteID(format, rec.Fields)

			exists, err := s.txs.Exists(ctx, remoteID)
			if err != nil {
				yield(nil, fmt.Errorf("%s: row %d: %w", format, rec.Line, err))
				return
			}

			if exists {
				res.Skipped++
				s.logger.Debug("skipping imported row", "format", format, "line", rec.Line, "remote_id", remoteID)

				continue
			}

			draft, err := src.Parse(rec)
			if err != nil {
				yield(nil, err)
				return
			}

			acc, err := s.accounts.Resolve(ctx, draft.OwnAccountNumber)
			if err != nil {
				yield(nil, fmt.Errorf("%s: row %d: %w", format, rec.Line, err))
				return
			}

			tx := &transaction.Transaction{
				RemoteID:              remoteID,
				OwnAccount:            acc,
				OpposingAccountNumber: draft.OpposingAccountNumber,
				OpposingName:          draft.OpposingName,
				RemoteDate:            draft.RemoteDate,
				Amount:                draft.Amount,
				Description:           draft.Description,
			}

			if !yield(tx, nil) {
				return
			}
		}
	}, nil
}

// Ingest stores every new transaction from r and runs the tagger on it. Rows stored before
// an error stay stored; the returned Result counts them.
func (s *Service) Ingest(ctx context.Context, format string, r io.Reader) (*Result, error) {
	res := &Result{}

	seq, err := s.transactions(ctx, format, r, res)
	if err != nil {
		return res, err
	}

	for tx, err := range seq {
		if err != nil {
			return res, err
		}

		if err := s.txs.Create(ctx, tx); err != nil {
			if errors.Is(err, transaction.ErrDuplicate) {
				res.Skipped++
				continue
			}

			return res, fmt.Errorf("store transaction: %w", err)
		}

		res.Imported++

		if s.tagger == nil {
			continue
		}

		if err := s.tagger.Run(ctx, tx); err != nil {
			return res, fmt.Errorf("tag transaction %s: %w", tx.ID, err)
		}
	}

	s.logger.Info("import finished", "format", format, "imported", res.Imported, "skipped", res.Skipped)

	return res, nil
}
