package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/importer"
	"github.com/spendsmart/spendsmart/internal/importer/sms"
	"github.com/spendsmart/spendsmart/internal/importer/statement"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

var userID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// fakeMatcher upper-cases descriptions for owner only.
type fakeMatcher struct {
	owner uuid.UUID
	err   error
}

func (f fakeMatcher) Apply(_ context.Context, user uuid.UUID, drafts []transaction.Draft) ([]transaction.Draft, error) {
	if f.err != nil {
		return nil, f.err
	}

	if user != f.owner {
		return drafts, nil
	}

	out := make([]transaction.Draft, len(drafts))
	for i, d := range drafts {
		d.Description = strings.ToUpper(d.Description)
		out[i] = d
	}

	return out, nil
}

func TestService_ImportStatement(t *testing.T) {
	csv := "Date,Narration,Debit,Credit\n01/05/2024,Caf\xe9 Coffee Day,180,\n"

	t.Run("DecodesAndParses", func(t *testing.T) {
		svc := importer.NewService(statement.New(nil), nil)

		got, err := svc.ImportStatement(context.Background(), userID, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Café Coffee Day", got[0].Description)
		assert.Equal(t, category.FoodDining, got[0].Category)
	})

	t.Run("AppliesMappings", func(t *testing.T) {
		svc := importer.NewService(statement.New(nil), fakeMatcher{owner: userID})

		got, err := svc.ImportStatement(context.Background(), userID, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "CAFÉ COFFEE DAY", got[0].Description)

		got, err = svc.ImportStatement(context.Background(), uuid.New(), strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Café Coffee Day", got[0].Description)
	})

	t.Run("MatcherError", func(t *testing.T) {
		svc := importer.NewService(statement.New(nil), fakeMatcher{err: errors.New("db down")})

		_, err := svc.ImportStatement(context.Background(), userID, strings.NewReader(csv))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "apply mappings")
	})

	t.Run("FormatErrorUnwrapped", func(t *testing.T) {
		svc := importer.NewService(statement.New(nil), nil)

		_, err := svc.ImportStatement(context.Background(), userID, strings.NewReader("just some text\n"))

		var fe *statement.FormatError
		assert.True(t, errors.As(err, &fe))
	})
}

func TestService_Import_UnknownFormat(t *testing.T) {
	svc := importer.NewService(statement.New(nil), nil)

	_, err := svc.Import(context.Background(), userID, importer.Format("xlsx"), strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

// Both extractors share one rule table, so a merchant lands in the same
// category whichever path produced it.
func TestExtractors_ShareCategories(t *testing.T) {
	table := category.Default()
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	for _, merchant := range []string{"Swiggy", "Uber", "Netflix", "Amazon", "Salary"} {
		t.Run(merchant, func(t *testing.T) {
			text := sms.New(table).Extract("Rs 100 debited at "+merchant+" on 01-05-2024", today)
			require.Len(t, text, 1)

			encoded, err := charmap.Windows1252.NewEncoder().String("Date,Description,Debit,Credit\n01/05/2024," + merchant + ",100,\n")
			require.NoError(t, err)

			rows, err := importer.NewService(statement.New(table), nil).ImportStatement(context.Background(), userID, strings.NewReader(encoded))
			require.NoError(t, err)
			require.Len(t, rows, 1)

			assert.Equal(t, text[0].Category, rows[0].Category)
			assert.Equal(t, table.Infer(merchant), rows[0].Category)
		})
	}
}
