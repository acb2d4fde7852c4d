package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendsmart/spendsmart/internal/transaction"
)

// DateLayout is day-first so exports re-import through the statement parser.
const DateLayout = "02/01/2006"

var header = []string{"Date", "Description", "Category", "Debit", "Credit"}

// Service exports stored transactions as statement CSV.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Export writes the transactions matching filter to w and returns how many
// rows were written.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, w io.Writer) (int, error) {
	transactions, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	if err := WriteCSV(w, transactions); err != nil {
		return 0, err
	}

	return len(transactions), nil
}

// WriteCSV writes transactions as Date,Description,Category,Debit,Credit.
func WriteCSV(w io.Writer, transactions []*transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, t := range transactions {
		debit, credit := formatAmount(t.Amount), ""
		if t.Type == transaction.TypeIncome {
			debit, credit = "", debit
		}

		record := []string{
			t.Date.Format(DateLayout),
			t.Description,
			string(t.Category),
			debit,
			credit,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// Summary renders per-category totals as text, one line per category.
func (s *Service) Summary(summary *transaction.Summary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Income:  ₹%s\n", formatAmount(summary.Income))
	fmt.Fprintf(&sb, "Expense: ₹%s\n", formatAmount(summary.Expense))
	fmt.Fprintf(&sb, "Net:     ₹%s\n", formatAmount(summary.Net()))

	for _, total := range summary.ByCategory {
		sign := "-"
		if total.Type == transaction.TypeIncome {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s₹%s | %d txn\n", total.Category, sign, formatAmount(total.Amount), total.Count)
	}

	return sb.String()
}

func formatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
