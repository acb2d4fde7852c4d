package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, rawDescription string) (*matching.Mapping, error) {
	query := `
		SELECT user_id, raw_pattern, preferred_description, COALESCE(category, '')
		FROM description_mappings
		WHERE user_id = $1 AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var (
		m   matching.Mapping
		cat string
	)

	err := s.db.QueryRowContext(ctx, query, userID, rawDescription).Scan(&m.UserID, &m.Pattern, &m.Description, &cat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	m.Category = category.Category(cat)

	return &m, nil
}

func (s *Store) SaveMapping(ctx context.Context, m matching.Mapping) error {
	query := `
		INSERT INTO description_mappings (user_id, raw_pattern, preferred_description, category, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NOW())
		ON CONFLICT (user_id, raw_pattern) DO UPDATE
		SET preferred_description = EXCLUDED.preferred_description,
		    category = EXCLUDED.category,
		    created_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, m.UserID, m.Pattern, m.Description, string(m.Category))
	if err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}

	return nil
}
