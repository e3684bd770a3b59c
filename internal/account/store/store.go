package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/scrooge/internal/account"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindOrCreate upserts on the unique number so concurrent callers converge on one row.
// The no-op DO UPDATE makes RETURNING yield the existing row; its label is left alone.
func (s *Store) FindOrCreate(ctx context.Context, number, label string) (*account.Account, error) {
	query := `
		INSERT INTO accounts (number, label, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (number) DO UPDATE SET number = EXCLUDED.number
		RETURNING id, number, label, created_at
	`

	var acc account.Account
	if err := s.db.QueryRowContext(ctx, query, number, label).Scan(
		&acc.ID, &acc.Number, &acc.Label, &acc.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("upserting account: %w", err)
	}

	return &acc, nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT id, number, label, created_at FROM accounts WHERE id = $1`

	var acc account.Account

	err := s.db.QueryRowContext(ctx, query, id).Scan(&acc.ID, &acc.Number, &acc.Label, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return &acc, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, number, label, created_at FROM accounts ORDER BY label ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(&acc.ID, &acc.Number, &acc.Label, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, &acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}
