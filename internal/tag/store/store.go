package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/scrooge/internal/tag"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindOrCreate upserts on the unique name. An existing non-empty label is never overwritten.
func (s *Store) FindOrCreate(ctx context.Context, name, label string) (*tag.Tag, error) {
	query := `
		INSERT INTO tags (name, label, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
			SET label = CASE WHEN tags.label = '' THEN EXCLUDED.label ELSE tags.label END
		RETURNING id, name, label, created_at
	`

	var t tag.Tag
	if err := s.db.QueryRowContext(ctx, query, name, label).Scan(&t.ID, &t.Name, &t.Label, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("upserting tag: %w", err)
	}

	return &t, nil
}

func (s *Store) ListTags(ctx context.Context) ([]*tag.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, label, created_at FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []*tag.Tag

	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Label, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}

		tags = append(tags, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return tags, nil
}
