package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/export"
	"github.com/spendsmart/spendsmart/internal/importer/statement"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

func stored() []*transaction.Transaction {
	return []*transaction.Transaction{
		{
			ID:          uuid.New(),
			Amount:      25050,
			Type:        transaction.TypeExpense,
			Category:    category.FoodDining,
			Description: "Starbucks Coffee",
			Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          uuid.New(),
			Amount:      5000000,
			Type:        transaction.TypeIncome,
			Category:    category.Salary,
			Description: "Salary, May",
			Date:        time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestService_Export(t *testing.T) {
	userID := uuid.New()

	t.Run("WritesCSV", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().ListTransactions(gomock.Any(), transaction.ListFilter{UserID: userID}).Return(stored(), nil)

		var buf bytes.Buffer

		n, err := export.NewService(transaction.NewService(repo)).Export(context.Background(), transaction.ListFilter{UserID: userID}, &buf)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		want := "Date,Description,Category,Debit,Credit\n" +
			"01/05/2024,Starbucks Coffee,Food & Dining,250.50,\n" +
			"31/05/2024,\"Salary, May\",Salary,,50000.00\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("ListError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		var buf bytes.Buffer

		_, err := export.NewService(transaction.NewService(repo)).Export(context.Background(), transaction.ListFilter{UserID: userID}, &buf)
		require.Error(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	txs := stored()

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, txs))

	drafts, err := statement.New(nil).ParseText(buf.String())
	require.NoError(t, err)
	require.Len(t, drafts, len(txs))

	for i, d := range drafts {
		p := d.Params()
		assert.Equal(t, txs[i].Amount, p.Amount)
		assert.Equal(t, txs[i].Type, d.Type)
		assert.Equal(t, txs[i].Category, d.Category)
		assert.Equal(t, txs[i].Date, d.Date)
		assert.Equal(t, txs[i].Description, d.Description)
	}
}

func TestService_Summary(t *testing.T) {
	summary := &transaction.Summary{
		Income:  5000000,
		Expense: 125050,
		ByCategory: []transaction.CategoryTotal{
			{Category: category.Salary, Type: transaction.TypeIncome, Amount: 5000000, Count: 1},
			{Category: category.HousingRent, Type: transaction.TypeExpense, Amount: 100000, Count: 1},
			{Category: category.FoodDining, Type: transaction.TypeExpense, Amount: 25050, Count: 3},
		},
	}

	got := export.NewService(nil).Summary(summary)

	want := "Income:  ₹50000.00\n" +
		"Expense: ₹1250.50\n" +
		"Net:     ₹48749.50\n" +
		"* Salary | +₹50000.00 | 1 txn\n" +
		"* Housing & Rent | -₹1000.00 | 1 txn\n" +
		"* Food & Dining | -₹250.50 | 3 txn\n"
	assert.Equal(t, want, got)
}
