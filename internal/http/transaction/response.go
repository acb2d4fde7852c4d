package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

type transactionResponse struct {
	ID             uuid.UUID         `json:"id"`
	Amount         int64             `json:"amount"`
	Type           transaction.Type  `json:"type"`
	Category       category.Category `json:"category"`
	Description    string            `json:"description"`
	RawDescription string            `json:"raw_description,omitempty"`
	Date           time.Time         `json:"date"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      *time.Time        `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Category:       tx.Category,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type categoryTotalResponse struct {
	Category category.Category `json:"category"`
	Type     transaction.Type  `json:"type"`
	Amount   int64             `json:"amount"`
	Count    int               `json:"count"`
}

type summaryResponse struct {
	Income     int64                   `json:"income"`
	Expense    int64                   `json:"expense"`
	Net        int64                   `json:"net"`
	ByCategory []categoryTotalResponse `json:"by_category"`
}

func toSummaryResponse(s *transaction.Summary) summaryResponse {
	resp := summaryResponse{
		Income:     s.Income,
		Expense:    s.Expense,
		Net:        s.Net(),
		ByCategory: make([]categoryTotalResponse, len(s.ByCategory)),
	}

	for i, t := range s.ByCategory {
		resp.ByCategory[i] = categoryTotalResponse{
			Category: t.Category,
			Type:     t.Type,
			Amount:   t.Amount,
			Count:    t.Count,
		}
	}

	return resp
}
