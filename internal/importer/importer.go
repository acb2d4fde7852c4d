package importer

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/transaction"
)

type Format string

const (
	FormatStatement Format = "statement"
)

type Importer interface {
	Parse(r io.Reader) ([]transaction.Draft, error)
}

// Matcher rewrites drafts using the description mappings userID has learned.
type Matcher interface {
	Apply(ctx context.Context, userID uuid.UUID, drafts []transaction.Draft) ([]transaction.Draft, error)
}
