package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spendsmart/spendsmart/internal/importer/sms"
)

var numericDate = regexp.MustCompile(`^(\d{1,4})[-/.](\d{1,2})[-/.](\d{1,4})(?:[T\s].*)?$`)

var textDateLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02-Jan-06",
	"02 Jan 06",
	"Jan 02, 2006",
	"Jan 2, 2006",
}

// parseDate accepts day-first numeric dates, ISO dates and a few textual
// month layouts.
func parseDate(s string) (time.Time, bool) {
	s = strings.Trim(s, `"' `)
	if s == "" {
		return time.Time{}, false
	}

	if m := numericDate.FindStringSubmatch(s); m != nil {
		if first, _ := strconv.Atoi(m[1]); first > 999 {
			return sms.NormalizeDate(m[3], m[2], m[1])
		}

		return sms.NormalizeDate(m[1], m[2], m[3])
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}

	return time.Time{}, false
}
