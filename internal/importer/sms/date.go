package sms

import (
	"strconv"
	"time"
)

// NormalizeDate builds a date from day, month and year groups. Day always
// comes first. Two-digit years are taken as 20YY. It reports false for
// impossible dates.
func NormalizeDate(d, m, y string) (time.Time, bool) {
	day, err := strconv.Atoi(d)
	if err != nil {
		return time.Time{}, false
	}

	month, err := strconv.Atoi(m)
	if err != nil {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(y)
	if err != nil {
		return time.Time{}, false
	}

	switch len(y) {
	case 2:
		year += 2000
	case 4:
	default:
		return time.Time{}, false
	}

	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}

	return t, true
}
