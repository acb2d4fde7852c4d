package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

type fakeGenerator struct {
	text   string
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config

	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}

	if f.err != nil {
		return nil, f.err
	}

	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func TestNew_NoCredentials(t *testing.T) {
	c, err := New(context.Background(), Config{APIKey: "  "})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestClient_ExtractTransactions(t *testing.T) {
	type testCase struct {
		name    string
		text    string
		err     error
		want    []transaction.Draft
		wantErr error
	}

	zomato := transaction.Draft{
		Amount:      decimal.NewFromInt(500),
		Type:        transaction.TypeExpense,
		Category:    category.FoodDining,
		Date:        time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
		Description: "Zomato",
	}

	const zomatoJSON = `[{"amount":500,"type":"expense","category":"Food & Dining","date":"2024-04-12","description":"Zomato"}]`

	tests := []testCase{
		{name: "PlainJSON", text: zomatoJSON, want: []transaction.Draft{zomato}},
		{name: "Fenced", text: "```json\n" + zomatoJSON + "\n```", want: []transaction.Draft{zomato}},
		{name: "SurroundingProse", text: "Here you go:\n" + zomatoJSON + "\nDone.", want: []transaction.Draft{zomato}},
		{name: "EmptyArray", text: "[]", want: []transaction.Draft{}},
		{name: "EmptyText", text: "  ", wantErr: ErrEmptyResponse},
		{name: "NotJSON", text: "I could not find any transactions.", wantErr: ErrMalformedResponse},
		{name: "BadDate", text: `[{"amount":5,"type":"expense","category":"Other","date":"12/04/2024","description":"x"}]`, wantErr: ErrMalformedResponse},
		{name: "CallFails", err: errors.New("deadline exceeded")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: tt.text, err: tt.err}
			c := newClient(gen, "")

			got, err := c.ExtractTransactions(context.Background(), "HDFC: Rs 500 debited for Zomato on 12-04-2024.", today)

			switch {
			case tt.err != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err)
				return
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i := range tt.want {
				assert.True(t, tt.want[i].Amount.Equal(got[i].Amount))
				assert.Equal(t, tt.want[i].Type, got[i].Type)
				assert.Equal(t, tt.want[i].Category, got[i].Category)
				assert.Equal(t, tt.want[i].Date, got[i].Date)
				assert.Equal(t, tt.want[i].Description, got[i].Description)
			}
		})
	}
}

func TestClient_Request(t *testing.T) {
	gen := &fakeGenerator{text: "[]"}
	c := newClient(gen, "gemini-test")

	_, err := c.ExtractTransactions(context.Background(), "Rs 20 paid to Ola", today)
	require.NoError(t, err)

	assert.Equal(t, "gemini-test", gen.model)
	assert.Contains(t, gen.prompt, "Today is 2024-06-15")
	assert.Contains(t, gen.prompt, "Rs 20 paid to Ola")
	assert.Contains(t, gen.prompt, "EMI / Loan")

	require.NotNil(t, gen.config)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)

	schema := gen.config.ResponseSchema
	require.NotNil(t, schema)
	assert.Equal(t, genai.TypeArray, schema.Type)
	assert.Equal(t, category.Strings(), schema.Items.Properties["category"].Enum)
	assert.ElementsMatch(t, []string{"income", "expense"}, schema.Items.Properties["type"].Enum)
}

func TestNewClient_DefaultModel(t *testing.T) {
	assert.Equal(t, DefaultModel, newClient(&fakeGenerator{}, "").model)
}

func TestCleanModelJSON(t *testing.T) {
	assert.Equal(t, `[1]`, cleanModelJSON("```\n[1]\n```"))
	assert.Equal(t, `[1]`, cleanModelJSON("  [1]  "))
	assert.Equal(t, "", cleanModelJSON("```json"))
	assert.Equal(t, "{}", cleanModelJSON("{}"))
}
