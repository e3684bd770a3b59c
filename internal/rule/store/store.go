package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/scrooge/internal/rule"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateRule(ctx context.Context, r *rule.Rule) error {
	query := `
		INSERT INTO tag_rules (pattern, tag_name, tag_label, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, r.Pattern, r.TagName, r.TagLabel).Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]*rule.Rule, error) {
	query := `
		SELECT id, pattern, tag_name, tag_label, created_at
		FROM tag_rules
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*rule.Rule

	for rows.Next() {
		var r rule.Rule
		if err := rows.Scan(&r.ID, &r.Pattern, &r.TagName, &r.TagLabel, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}

func (s *Store) FindMatch(ctx context.Context, description string) (*rule.Rule, error) {
	query := `
		SELECT id, pattern, tag_name, tag_label, created_at
		FROM tag_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var r rule.Rule

	err := s.db.QueryRowContext(ctx, query, description).Scan(&r.ID, &r.Pattern, &r.TagName, &r.TagLabel, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rule.ErrNotFound
		}

		return nil, fmt.Errorf("finding rule: %w", err)
	}

	return &r, nil
}
