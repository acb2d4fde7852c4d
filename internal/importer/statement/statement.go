// Package statement parses comma-delimited bank statement exports. The
// header row is located heuristically since banks prepend account details
// before it.
package statement

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

// HeaderScanLimit is how many leading lines are searched for the header.
const HeaderScanLimit = 20

const defaultDescription = "Bank Transaction"

// FormatError reports a statement without a usable header row.
type FormatError struct {
	Scanned int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf(
		"no statement header found in the first %d lines: expected a date column and a debit or credit column",
		e.Scanned,
	)
}

// Parser reads statements and infers categories with its table.
type Parser struct {
	table *category.Table
}

// New returns a Parser. A nil table uses category.Default.
func New(table *category.Table) *Parser {
	if table == nil {
		table = category.Default()
	}

	return &Parser{table: table}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.Draft, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	return p.ParseText(string(raw))
}

// ParseText returns one draft per usable data row in row order. Rows that
// are short, carry no amount, or have a bad date are skipped.
func (p *Parser) ParseText(raw string) ([]transaction.Draft, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	headerIdx, cols, ok := findHeader(lines)
	if !ok {
		return nil, &FormatError{Scanned: min(len(lines), HeaderScanLimit)}
	}

	var drafts []transaction.Draft

	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		d, ok := p.parseRow(splitRow(line), cols)
		if !ok {
			continue
		}

		drafts = append(drafts, d)
	}

	return drafts, nil
}

func (p *Parser) parseRow(row []string, cols columns) (transaction.Draft, bool) {
	if len(row) < cols.width {
		return transaction.Draft{}, false
	}

	debit := parseAmount(cellValue(row, cols.debit))
	credit := parseAmount(cellValue(row, cols.credit))

	var (
		amount decimal.Decimal
		txType transaction.Type
	)

	// A negative debit is a reversal and a negative credit a charge back.
	switch {
	case debit.IsPositive():
		amount, txType = debit, transaction.TypeExpense
	case credit.IsPositive():
		amount, txType = credit, transaction.TypeIncome
	case debit.IsNegative():
		amount, txType = debit.Neg(), transaction.TypeIncome
	case credit.IsNegative():
		amount, txType = credit.Neg(), transaction.TypeExpense
	default:
		return transaction.Draft{}, false
	}

	date, ok := parseDate(cellValue(row, cols.date))
	if !ok {
		return transaction.Draft{}, false
	}

	desc := cleanDescription(cellValue(row, cols.desc))

	return transaction.Draft{
		Amount:      amount,
		Type:        txType,
		Category:    p.table.Infer(desc),
		Date:        date,
		Description: desc,
	}, true
}

// parseAmount reads a signed debit or credit cell. Anything unreadable is
// zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Trim(s, `"' `)

	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

var railPrefixes = []string{"UPI/", "NEFT/", "IMPS/", "MPS/", "RTGS/", "ACH/"}

func cleanDescription(s string) string {
	s = strings.NewReplacer(`"`, "", "'", "").Replace(s)
	s = strings.TrimSpace(s)

	for _, prefix := range railPrefixes {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}

	if s == "" {
		return defaultDescription
	}

	return s
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// splitRow splits a line on commas outside double quotes. Quotes are kept
// in the cells and removed by the cell consumers.
func splitRow(line string) []string {
	var (
		cells    []string
		inQuotes bool
		start    int
	)

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if inQuotes {
				continue
			}

			cells = append(cells, line[start:i])
			start = i + 1
		}
	}

	return append(cells, line[start:])
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
