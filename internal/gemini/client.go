// Package gemini extracts transaction drafts from free text with a Gemini
// model constrained to a JSON response schema.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

const DefaultModel = "gemini-2.5-flash"

var (
	ErrNoCredentials     = errors.New("gemini: no API key configured")
	ErrEmptyResponse     = errors.New("gemini: empty response")
	ErrMalformedResponse = errors.New("gemini: malformed response")
)

type Config struct {
	APIKey string
	Model  string
}

// generator is the part of genai.Models the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models generator
	model  string
}

// New creates a client for the Gemini API. It returns ErrNoCredentials when
// no key is configured, which callers treat as "remote unavailable".
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoCredentials
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(gc.Models, cfg.Model), nil
}

func newClient(models generator, model string) *Client {
	if model == "" {
		model = DefaultModel
	}

	return &Client{models: models, model: model}
}

// ExtractTransactions asks the model for every transaction in text. today
// anchors relative dates such as "yesterday". The drafts are decoded but not
// validated.
func (c *Client) ExtractTransactions(ctx context.Context, text string, today time.Time) ([]transaction.Draft, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(buildPrompt(text, today)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   draftsSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := ""
	if resp != nil {
		raw = resp.Text()
	}

	clean := cleanModelJSON(raw)
	if clean == "" {
		return nil, ErrEmptyResponse
	}

	var drafts []transaction.Draft
	if err := json.Unmarshal([]byte(clean), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return drafts, nil
}

func buildPrompt(text string, today time.Time) string {
	var b strings.Builder

	b.WriteString("You extract financial transactions from Indian bank SMS, UPI notifications and statement text.\n\n")
	fmt.Fprintf(&b, "Today is %s. Resolve relative dates against it.\n\n", today.Format(time.DateOnly))
	b.WriteString("For every transaction return an object with:\n")
	b.WriteString("- \"amount\": positive number in rupees\n")
	b.WriteString("- \"type\": \"expense\" for money out, \"income\" for money in\n")
	b.WriteString("- \"category\": exactly one of: " + strings.Join(category.Strings(), ", ") + "\n")
	b.WriteString("- \"date\": ISO date YYYY-MM-DD\n")
	b.WriteString("- \"description\": short merchant or counterparty name\n\n")
	b.WriteString("Ignore OTPs, balance alerts and promotional messages. Return an empty array if nothing qualifies.\n\n")
	b.WriteString("Text:\n")
	b.WriteString(text)

	return b.String()
}

func draftsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"amount":      {Type: genai.TypeNumber},
				"type":        {Type: genai.TypeString, Enum: []string{string(transaction.TypeIncome), string(transaction.TypeExpense)}},
				"category":    {Type: genai.TypeString, Enum: category.Strings()},
				"date":        {Type: genai.TypeString, Description: "YYYY-MM-DD"},
				"description": {Type: genai.TypeString},
			},
			Required:         []string{"amount", "type", "category", "date", "description"},
			PropertyOrdering: []string{"amount", "type", "category", "date", "description"},
		},
	}
}

// cleanModelJSON strips Markdown fences and any text around the array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return ""
		}

		s = strings.TrimSpace(s[idx+1:])
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = s[start : end+1]
		}
	}

	return s
}
