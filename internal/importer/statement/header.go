package statement

import (
	"slices"
	"strings"
)

var (
	dateSynonyms   = []string{"date", "txn date", "transaction date", "value date"}
	descSynonyms   = []string{"description", "narration", "particulars", "remarks", "details"}
	debitSynonyms  = []string{"debit", "withdrawal", "dr", "debit amount"}
	creditSynonyms = []string{"credit", "deposit", "cr", "credit amount"}
)

// columns holds resolved header indices. Missing columns are -1.
type columns struct {
	date, desc, debit, credit int
	width                     int
}

// findHeader returns the first line within HeaderScanLimit naming a date
// column and a debit or credit column.
func findHeader(lines []string) (int, columns, bool) {
	for i, line := range lines {
		if i >= HeaderScanLimit {
			break
		}

		cols := resolveColumns(splitRow(line))
		if cols.date >= 0 && (cols.debit >= 0 || cols.credit >= 0) {
			return i, cols, true
		}
	}

	return 0, columns{}, false
}

func resolveColumns(cells []string) columns {
	cols := columns{date: -1, desc: -1, debit: -1, credit: -1, width: headerWidth(cells)}

	for i, cell := range cells {
		words := headerWords(cell)
		if len(words) == 0 {
			continue
		}

		switch {
		case cols.date < 0 && matchesAny(words, dateSynonyms):
			cols.date = i
		case cols.debit < 0 && matchesAny(words, debitSynonyms):
			cols.debit = i
		case cols.credit < 0 && matchesAny(words, creditSynonyms):
			cols.credit = i
		case cols.desc < 0 && matchesAny(words, descSynonyms):
			cols.desc = i
		}
	}

	return cols
}

// headerWidth ignores trailing empty cells left by a dangling delimiter.
func headerWidth(cells []string) int {
	n := len(cells)
	for n > 0 && strings.TrimSpace(cells[n-1]) == "" {
		n--
	}

	return n
}

// headerWords lower-cases a header cell and splits it into words, so
// "Withdrawal Amt (INR)" becomes [withdrawal amt inr].
func headerWords(cell string) []string {
	return strings.FieldsFunc(strings.ToLower(cell), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

// minSubstringLen is the shortest synonym matched inside a cell rather
// than as a whole word. Shorter ones (dr, cr) would hit "Description".
const minSubstringLen = 4

// matchesAny reports whether the cell words contain a synonym. Long
// synonyms match anywhere in the cell with separators removed, so
// "Withdrawals", "TxnDate" and "Value_Date" all match. Short synonyms must
// be a whole word.
func matchesAny(words, synonyms []string) bool {
	compact := strings.Join(words, "")

	for _, syn := range synonyms {
		want := strings.Fields(syn)
		joined := strings.Join(want, "")

		if len(joined) >= minSubstringLen {
			if strings.Contains(compact, joined) {
				return true
			}

			continue
		}

		for i := 0; i+len(want) <= len(words); i++ {
			if slices.Equal(words[i:i+len(want)], want) {
				return true
			}
		}
	}

	return false
}
