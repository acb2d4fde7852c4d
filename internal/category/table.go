package category

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Rule maps a keyword set to a category. Keywords match as case-insensitive
// substrings anywhere in the text; Words only match whole words, which suits
// short tokens such as "emi" or "sip" that hide inside longer words.
type Rule struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Words    []string `yaml:"words"`
}

// Table is an ordered, immutable rule set. The first matching rule wins, so
// specific merchants must be listed before generic terms.
type Table struct {
	rules []Rule
}

// NewTable validates and copies rules. Keywords are lower-cased and trimmed.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{rules: make([]Rule, 0, len(rules))}

	for i, r := range rules {
		if !r.Category.Valid() {
			return nil, fmt.Errorf("rule %d: unknown category %q", i, r.Category)
		}

		rule := Rule{
			Category: r.Category,
			Keywords: normalize(r.Keywords),
			Words:    normalize(r.Words),
		}
		if len(rule.Keywords) == 0 && len(rule.Words) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i, r.Category)
		}

		t.rules = append(t.rules, rule)
	}

	return t, nil
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))

	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}

		out = append(out, s)
	}

	return out
}

// Infer returns the category of the first rule matching text, or Other.
func (t *Table) Infer(text string) Category {
	lower := strings.ToLower(text)

	var words map[string]struct{}

	for _, r := range t.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Category
			}
		}

		if len(r.Words) == 0 {
			continue
		}

		if words == nil {
			words = wordSet(lower)
		}

		for _, w := range r.Words {
			if _, ok := words[w]; ok {
				return r.Category
			}
		}
	}

	return Other
}

// Rules returns a copy of the rule list in precedence order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = Rule{
			Category: r.Category,
			Keywords: append([]string(nil), r.Keywords...),
			Words:    append([]string(nil), r.Words...),
		}
	}

	return out
}

func wordSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}

	return set
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads a YAML rule file of the form:
//
//	rules:
//	  - category: Food & Dining
//	    keywords: [swiggy, zomato]
//	    words: [kfc]
func Load(r io.Reader) (*Table, error) {
	var f ruleFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode rules: empty file")
		}

		return nil, fmt.Errorf("decode rules: %w", err)
	}

	if len(f.Rules) == 0 {
		return nil, errors.New("decode rules: no rules defined")
	}

	return NewTable(f.Rules)
}

// LoadFile is Load for a path on disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer f.Close()

	return Load(f)
}
