package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

var ErrInvalidMapping = errors.New("invalid mapping")

// Mapping rewrites any raw description of UserID containing Pattern.
// An empty Category leaves the inferred category untouched.
type Mapping struct {
	UserID      uuid.UUID
	Pattern     string
	Description string
	Category    category.Category
}

type Repository interface {
	FindMatch(ctx context.Context, userID uuid.UUID, rawDescription string) (*Mapping, error)
	SaveMapping(ctx context.Context, m Mapping) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest finds the most specific mapping for the raw description.
// Returns nil if no match found.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, rawDescription string) (*Mapping, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return nil, nil
	}

	return s.repo.FindMatch(ctx, userID, rawDescription)
}

// Learn remembers a mapping between a raw pattern and a preferred description.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, rawPattern, preferredDescription string, cat category.Category) error {
	m := Mapping{
		UserID:      userID,
		Pattern:     strings.TrimSpace(rawPattern),
		Description: strings.TrimSpace(preferredDescription),
		Category:    cat,
	}

	if m.Pattern == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidMapping)
	}

	if m.Description == "" {
		return fmt.Errorf("%w: empty description", ErrInvalidMapping)
	}

	if m.Category != "" && !m.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidMapping, m.Category)
	}

	return s.repo.SaveMapping(ctx, m)
}

// Apply rewrites the drafts using the mappings learned by userID. The input
// slice is not modified.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, drafts []transaction.Draft) ([]transaction.Draft, error) {
	out := make([]transaction.Draft, len(drafts))
	copy(out, drafts)

	for i := range out {
		m, err := s.Suggest(ctx, userID, out[i].Description)
		if err != nil {
			return nil, fmt.Errorf("matching draft %d: %w", i, err)
		}

		if m == nil {
			continue
		}

		out[i].Description = m.Description
		if m.Category != "" {
			out[i].Category = m.Category
		}
	}

	return out, nil
}
