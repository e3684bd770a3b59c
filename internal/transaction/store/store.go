package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/account"
	"github.com/MrJamesThe3rd/scrooge/internal/money"
	"github.com/MrJamesThe3rd/scrooge/internal/tag"
	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row joined with its account.
// Expected column order matches selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx       transaction.Transaction
		acc      account.Account
		currency string
	)

	if err := s.Scan(
		&tx.ID, &tx.RemoteID, &tx.OpposingAccountNumber, &tx.OpposingName, &tx.RemoteDate,
		&tx.Amount.Value, &currency, &tx.Description, &tx.CreatedAt, &tx.UpdatedAt,
		&acc.ID, &acc.Number, &acc.Label, &acc.CreatedAt,
	); err != nil {
		return nil, err
	}

	unit, err := money.ParseCurrency(currency)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	tx.Amount.Currency = unit
	tx.RemoteDate = tx.RemoteDate.UTC()
	tx.OwnAccount = &acc

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.remote_id, t.opposing_account_number, t.opposing_name, t.remote_date,
	t.amount, t.currency, t.description, t.created_at, t.updated_at,
	a.id, a.number, a.label, a.created_at
`

// CreateTransaction relies on the partial unique index on remote_id: a conflicting insert
// returns no row, which is reported as ErrDuplicate.
func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			remote_id, own_account_id, opposing_account_number, opposing_name,
			remote_date, amount, currency, description, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (remote_id) WHERE remote_id <> '' DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.RemoteID,
		tx.OwnAccount.ID,
		tx.OpposingAccountNumber,
		tx.OpposingName,
		tx.RemoteDate,
		tx.Amount.Value,
		tx.Amount.Code(),
		tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrDuplicate
		}

		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN accounts a ON t.own_account_id = a.id
		WHERE t.id = $1`

	return s.getOne(ctx, query, id)
}

func (s *Store) FindByRemoteID(ctx context.Context, remoteID string) (*transaction.Transaction, error) {
	if remoteID == "" {
		return nil, transaction.ErrNotFound
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN accounts a ON t.own_account_id = a.id
		WHERE t.remote_id = $1`

	return s.getOne(ctx, query, remoteID)
}

func (s *Store) getOne(ctx context.Context, query string, arg any) (*transaction.Transaction, error) {
	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	if err := s.loadTags(ctx, []*transaction.Transaction{tx}); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN accounts a ON t.own_account_id = a.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND t.own_account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Tag != nil {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM transaction_tags tt JOIN tags tg ON tg.id = tt.tag_id
			WHERE tt.transaction_id = t.id AND tg.name = $%d)`, argIdx)

		args = append(args, *filter.Tag)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.remote_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.remote_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.remote_date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	if err := s.loadTags(ctx, txs); err != nil {
		return nil, err
	}

	return txs, nil
}

// loadTags fills Tags for all txs with a single query.
func (s *Store) loadTags(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*transaction.Transaction, len(txs))
	ids := make([]string, 0, len(txs))

	for _, tx := range txs {
		byID[tx.ID] = tx
		ids = append(ids, tx.ID.String())
	}

	query := `
		SELECT tt.transaction_id, tg.id, tg.name, tg.label, tg.created_at
		FROM transaction_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		WHERE tt.transaction_id = ANY($1::uuid[])
		ORDER BY tg.name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			txID uuid.UUID
			t    tag.Tag
		)

		if err := rows.Scan(&txID, &t.ID, &t.Name, &t.Label, &t.CreatedAt); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}

		if tx, ok := byID[txID]; ok {
			tx.Tags = append(tx.Tags, &t)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tags: %w", err)
	}

	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET opposing_account_number = $1, opposing_name = $2, remote_date = $3,
			amount = $4, currency = $5, description = $6, updated_at = NOW()
		WHERE id = $7 AND remote_id = ''
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.OpposingAccountNumber,
		tx.OpposingName,
		tx.RemoteDate,
		tx.Amount.Value,
		tx.Amount.Code(),
		tx.Description,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// AddTags links all tags in one database transaction so readers never see a partial set.
func (s *Store) AddTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	linkQuery := `
		INSERT INTO transaction_tags (transaction_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	for _, tagID := range tagIDs {
		if _, err := dbTx.ExecContext(ctx, linkQuery, id, tagID); err != nil {
			return fmt.Errorf("linking tag %s: %w", tagID, err)
		}
	}

	if _, err := dbTx.ExecContext(ctx, `UPDATE transactions SET updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("touching transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
