package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	enc "github.com/spendsmart/spendsmart/internal/encoding"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

type Service struct {
	importers map[Format]Importer
	matcher   Matcher
}

// NewService wires the statement importer. matcher may be nil.
func NewService(statement Importer, matcher Matcher) *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatStatement: statement,
		},
		matcher: matcher,
	}
}

// Import decodes r to UTF-8, parses it with the importer for format and
// applies the mappings userID has learned. Parse errors such as a missing header are returned unwrapped so callers
// can match them with errors.As.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, format Format, r io.Reader) ([]transaction.Draft, error) {
	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	text, err := enc.ReadString(r)
	if err != nil {
		return nil, err
	}

	drafts, err := importer.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	return s.Apply(ctx, userID, drafts)
}

// ImportStatement imports a comma-delimited bank statement.
func (s *Service) ImportStatement(ctx context.Context, userID uuid.UUID, r io.Reader) ([]transaction.Draft, error) {
	return s.Import(ctx, userID, FormatStatement, r)
}

// Apply rewrites drafts with the mappings userID has learned. Without a matcher the drafts
// are returned unchanged.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, drafts []transaction.Draft) ([]transaction.Draft, error) {
	if s.matcher == nil || len(drafts) == 0 {
		return drafts, nil
	}

	out, err := s.matcher.Apply(ctx, userID, drafts)
	if err != nil {
		return nil, fmt.Errorf("apply mappings: %w", err)
	}

	return out, nil
}
