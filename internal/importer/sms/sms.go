// Package sms extracts transaction drafts from pasted bank SMS and
// notification text. Extraction is pure and never fails: lines that cannot
// be understood are skipped.
package sms

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

// MinLineLength is the shortest trimmed line that can hold a transaction.
const MinLineLength = 10

const unknownDescription = "Unknown Transaction"

var (
	creditPattern = regexp.MustCompile(`(?i)\b(?:credited|received|deposited|added)\b`)
	debitPattern  = regexp.MustCompile(`(?i)\b(?:debited|spent|paid|sent|withdrawn)\b`)

	amountPattern = regexp.MustCompile(`(?i)(?:\brs\.?|\binr|₹|\$|£|€)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	datePattern   = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})\b`)

	counterpartyPattern = regexp.MustCompile(`(?i)\b(?:at|to|from)\s+([a-z0-9\s&\-.]+?)(?:\s+(?:on|using|via|ref|txn)\b|[.,]|$)`)
	vpaPattern          = regexp.MustCompile(`(?i)\b(?:vpa|upi)\s+([a-z0-9.@]+)`)

	titleWord = regexp.MustCompile(`\w\S*`)
)

// knownMerchants is checked in order when no counterparty phrase is present.
var knownMerchants = []string{"Swiggy", "Zomato", "Uber", "Ola", "Amazon", "Flipkart", "Netflix", "Salary"}

// Extractor turns free text into drafts using a category table.
type Extractor struct {
	table *category.Table
}

// New returns an Extractor. A nil table uses category.Default.
func New(table *category.Table) *Extractor {
	if table == nil {
		table = category.Default()
	}

	return &Extractor{table: table}
}

// Extract returns one draft per line that carries a direction and an amount,
// in input order. Lines without a date are dated today.
func (e *Extractor) Extract(blob string, today time.Time) []transaction.Draft {
	today = dateOnly(today)

	var drafts []transaction.Draft

	for _, line := range splitLines(blob) {
		d, ok := e.extractLine(line, today)
		if !ok {
			continue
		}

		drafts = append(drafts, d)
	}

	return drafts
}

func (e *Extractor) extractLine(line string, today time.Time) (transaction.Draft, bool) {
	txType, ok := direction(line)
	if !ok {
		return transaction.Draft{}, false
	}

	amount, ok := parseAmount(line)
	if !ok {
		return transaction.Draft{}, false
	}

	date := today
	if m := datePattern.FindStringSubmatch(line); m != nil {
		if t, ok := NormalizeDate(m[1], m[2], m[3]); ok {
			date = t
		}
	}

	desc := counterparty(line)

	return transaction.Draft{
		Amount:      amount,
		Type:        txType,
		Category:    e.table.Infer(desc),
		Date:        date,
		Description: titleCase(desc),
	}, true
}

func direction(line string) (transaction.Type, bool) {
	switch {
	case creditPattern.MatchString(line):
		return transaction.TypeIncome, true
	case debitPattern.MatchString(line):
		return transaction.TypeExpense, true
	}

	lower := strings.ToLower(line)

	switch {
	case strings.Contains(lower, "paid to"), strings.Contains(lower, "sent to"):
		return transaction.TypeExpense, true
	case strings.Contains(lower, "received from"):
		return transaction.TypeIncome, true
	}

	return "", false
}

func parseAmount(line string) (decimal.Decimal, bool) {
	m := amountPattern.FindStringSubmatch(line)
	if m == nil {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}

	return d, true
}

func counterparty(line string) string {
	if m := counterpartyPattern.FindStringSubmatch(line); m != nil {
		if name := strings.TrimSpace(m[1]); len(name) > 2 {
			return name
		}
	}

	if m := vpaPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}

	lower := strings.ToLower(line)
	for _, merchant := range knownMerchants {
		if strings.Contains(lower, strings.ToLower(merchant)) {
			return merchant
		}
	}

	return unknownDescription
}

func titleCase(s string) string {
	return titleWord.ReplaceAllStringFunc(s, func(w string) string {
		r, size := utf8.DecodeRuneInString(w)
		return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	})
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
