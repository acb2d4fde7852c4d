package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendsmart/spendsmart/internal/category"
)

var ErrInvalidDraft = errors.New("invalid transaction draft")

// Draft is an extracted, unpersisted transaction candidate. Drafts are
// produced by the extractors, reviewed by a person and then stored.
type Draft struct {
	Amount      decimal.Decimal
	Type        Type
	Category    category.Category
	Date        time.Time
	Description string
}

// Validate enforces the invariants every draft must satisfy regardless of
// which extractor produced it.
func (d Draft) Validate() error {
	switch {
	case !d.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidDraft, d.Amount)
	case !d.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDraft, d.Type)
	case !d.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidDraft, d.Category)
	case d.Date.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidDraft)
	case strings.TrimSpace(d.Description) == "":
		return fmt.Errorf("%w: empty description", ErrInvalidDraft)
	}

	return nil
}

// ValidateDrafts validates every draft and reports the first failure.
func ValidateDrafts(drafts []Draft) error {
	for i, d := range drafts {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("draft %d: %w", i, err)
		}
	}

	return nil
}

// Params converts the draft into creation parameters, storing the amount in
// minor units.
func (d Draft) Params() CreateParams {
	return CreateParams{
		Amount:         d.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Type:           d.Type,
		Category:       d.Category,
		Description:    d.Description,
		RawDescription: d.Description,
		Date:           d.Date,
	}
}

// DraftParams converts a batch of drafts.
func DraftParams(drafts []Draft) []CreateParams {
	params := make([]CreateParams, len(drafts))
	for i, d := range drafts {
		params[i] = d.Params()
	}

	return params
}

type draftJSON struct {
	Amount      json.Number       `json:"amount"`
	Type        Type              `json:"type"`
	Category    category.Category `json:"category"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
}

func (d Draft) MarshalJSON() ([]byte, error) {
	date := ""
	if !d.Date.IsZero() {
		date = d.Date.Format(time.DateOnly)
	}

	return json.Marshal(draftJSON{
		Amount:      json.Number(d.Amount.String()),
		Type:        d.Type,
		Category:    d.Category,
		Date:        date,
		Description: d.Description,
	})
}

func (d *Draft) UnmarshalJSON(b []byte) error {
	var raw draftJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	date, err := time.Parse(time.DateOnly, raw.Date)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	*d = Draft{
		Amount:      amount,
		Type:        raw.Type,
		Category:    raw.Category,
		Date:        date,
		Description: raw.Description,
	}

	return nil
}
