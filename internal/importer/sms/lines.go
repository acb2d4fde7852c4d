package sms

import (
	"strings"
)

// abbreviations end in a period that does not end a sentence.
var abbreviations = map[string]bool{
	"rs": true, "no": true, "a/c": true, "ref": true,
	"txn": true, "avl": true, "bal": true, "info": true,
}

// splitLines breaks a blob on newlines and on ". " sentence boundaries,
// keeping abbreviations like "Rs. 500" intact. Short lines are dropped.
func splitLines(blob string) []string {
	var out []string

	for raw := range strings.SplitSeq(blob, "\n") {
		for _, s := range splitSentences(raw) {
			s = strings.TrimSpace(s)
			if len(s) < MinLineLength {
				continue
			}

			out = append(out, s)
		}
	}

	return out
}

func splitSentences(line string) []string {
	var (
		out   []string
		start int
	)

	for i := 0; i+1 < len(line); i++ {
		if line[i] != '.' || line[i+1] != ' ' {
			continue
		}

		if abbreviations[lastWord(line[start:i])] {
			continue
		}

		out = append(out, line[start:i])
		start = i + 2
	}

	return append(out, line[start:])
}

func lastWord(s string) string {
	if i := strings.LastIndexAny(s, " \t:(,"); i >= 0 {
		s = s[i+1:]
	}

	return strings.ToLower(s)
}
