package transaction_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

func validDraft() transaction.Draft {
	return transaction.Draft{
		Amount:      decimal.NewFromInt(500),
		Type:        transaction.TypeExpense,
		Category:    category.FoodDining,
		Date:        time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
		Description: "Zomato",
	}
}

func TestDraft_Validate(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(d *transaction.Draft)
		wantErr string
	}

	tests := []testCase{
		{name: "Valid", mutate: func(d *transaction.Draft) {}},
		{name: "ZeroAmount", mutate: func(d *transaction.Draft) { d.Amount = decimal.Zero }, wantErr: "amount"},
		{name: "NegativeAmount", mutate: func(d *transaction.Draft) { d.Amount = decimal.NewFromInt(-1) }, wantErr: "amount"},
		{name: "UnknownType", mutate: func(d *transaction.Draft) { d.Type = "transfer" }, wantErr: "type"},
		{name: "UnknownCategory", mutate: func(d *transaction.Draft) { d.Category = "Pets" }, wantErr: "category"},
		{name: "EmptyCategory", mutate: func(d *transaction.Draft) { d.Category = "" }, wantErr: "category"},
		{name: "MissingDate", mutate: func(d *transaction.Draft) { d.Date = time.Time{} }, wantErr: "date"},
		{name: "BlankDescription", mutate: func(d *transaction.Draft) { d.Description = "  " }, wantErr: "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := d.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, transaction.ErrInvalidDraft)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDrafts_ReportsIndex(t *testing.T) {
	bad := validDraft()
	bad.Type = ""

	err := transaction.ValidateDrafts([]transaction.Draft{validDraft(), bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft 1")
	assert.NoError(t, transaction.ValidateDrafts(nil))
}

func TestDraft_Params(t *testing.T) {
	d := validDraft()
	d.Amount = decimal.RequireFromString("1234.567")

	p := d.Params()
	assert.Equal(t, int64(123457), p.Amount)
	assert.Equal(t, transaction.TypeExpense, p.Type)
	assert.Equal(t, category.FoodDining, p.Category)
	assert.Equal(t, "Zomato", p.RawDescription)
	assert.Equal(t, d.Date, p.Date)
}

func TestDraft_JSON(t *testing.T) {
	b, err := json.Marshal(validDraft())
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":500,"type":"expense","category":"Food & Dining","date":"2024-04-12","description":"Zomato"}`, string(b))

	var got transaction.Draft
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"99.5","type":"income","category":"Salary","date":"2024-01-31","description":"Pay"}`), &got))
	assert.True(t, decimal.RequireFromString("99.5").Equal(got.Amount))
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), got.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"amount":1,"type":"income","category":"Salary","date":"31/01/2024","description":"Pay"}`), &got))
}
