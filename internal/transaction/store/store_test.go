package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/database/dbtest"
	"github.com/spendsmart/spendsmart/internal/transaction"
	"github.com/spendsmart/spendsmart/internal/transaction/store"
)

func TestStore(t *testing.T) {
	db := dbtest.New(t)
	s := store.New(db)
	ctx := context.Background()

	userID := uuid.New()
	otherUser := uuid.New()
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	may2 := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	coffee := &transaction.Transaction{
		UserID:         userID,
		Amount:         25000,
		Type:           transaction.TypeExpense,
		Category:       category.FoodDining,
		Description:    "Starbucks Coffee",
		RawDescription: "Starbucks Coffee",
		Date:           may1,
	}
	salary := &transaction.Transaction{
		UserID:         userID,
		Amount:         5000000,
		Type:           transaction.TypeIncome,
		Category:       category.Salary,
		Description:    "Salary",
		RawDescription: "Salary",
		Date:           may2,
	}
	foreign := &transaction.Transaction{
		UserID:      otherUser,
		Amount:      100,
		Type:        transaction.TypeExpense,
		Category:    category.Other,
		Description: "Not Mine",
		Date:        may1,
	}

	for _, tx := range []*transaction.Transaction{coffee, salary, foreign} {
		require.NoError(t, s.CreateTransaction(ctx, tx))
		require.NotEqual(t, uuid.Nil, tx.ID)
	}

	t.Run("GetScopedToUser", func(t *testing.T) {
		got, err := s.GetTransaction(ctx, userID, coffee.ID)
		require.NoError(t, err)
		assert.Equal(t, "Starbucks Coffee", got.Description)
		assert.Equal(t, category.FoodDining, got.Category)
		assert.Equal(t, int64(25000), got.Amount)

		_, err = s.GetTransaction(ctx, otherUser, coffee.ID)
		assert.ErrorIs(t, err, transaction.ErrNotFound)
	})

	t.Run("ListFilters", func(t *testing.T) {
		all, err := s.ListTransactions(ctx, transaction.ListFilter{UserID: userID})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, salary.ID, all[0].ID)

		expense := transaction.TypeExpense
		only, err := s.ListTransactions(ctx, transaction.ListFilter{UserID: userID, Type: &expense})
		require.NoError(t, err)
		require.Len(t, only, 1)
		assert.Equal(t, coffee.ID, only[0].ID)

		cat := category.Salary
		byCat, err := s.ListTransactions(ctx, transaction.ListFilter{UserID: userID, Category: &cat, StartDate: &may2, EndDate: &may2})
		require.NoError(t, err)
		require.Len(t, byCat, 1)
		assert.Equal(t, salary.ID, byCat[0].ID)
	})

	t.Run("Summarize", func(t *testing.T) {
		totals, err := s.SummarizeTransactions(ctx, transaction.ListFilter{UserID: userID})
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, transaction.CategoryTotal{Category: category.Salary, Type: transaction.TypeIncome, Amount: 5000000, Count: 1}, totals[0])
		assert.Equal(t, transaction.CategoryTotal{Category: category.FoodDining, Type: transaction.TypeExpense, Amount: 25000, Count: 1}, totals[1])
	})

	t.Run("ImportFindsDuplicates", func(t *testing.T) {
		itx, err := s.BeginImport(ctx, userID, may1, may2)
		require.NoError(t, err)

		dups, err := itx.FindDuplicates(ctx, []transaction.CreateParams{
			{UserID: userID, Amount: 25000, Type: transaction.TypeExpense, RawDescription: "Starbucks Coffee", Date: may1},
			{UserID: userID, Amount: 999, Type: transaction.TypeExpense, RawDescription: "New Thing", Date: may2},
		})
		require.NoError(t, err)
		require.Len(t, dups, 1)
		assert.Equal(t, coffee.ID, dups[0].ID)

		fresh := &transaction.Transaction{
			UserID:         userID,
			Amount:         999,
			Type:           transaction.TypeExpense,
			Category:       category.Shopping,
			Description:    "New Thing",
			RawDescription: "New Thing",
			Date:           may2,
		}
		require.NoError(t, itx.CreateTransactions(ctx, []*transaction.Transaction{fresh}))
		require.NoError(t, itx.Commit())

		_, err = s.GetTransaction(ctx, userID, fresh.ID)
		require.NoError(t, err)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		coffee.Category = category.Groceries
		require.NoError(t, s.UpdateTransaction(ctx, coffee))

		got, err := s.GetTransaction(ctx, userID, coffee.ID)
		require.NoError(t, err)
		assert.Equal(t, category.Groceries, got.Category)

		assert.ErrorIs(t, s.DeleteTransaction(ctx, otherUser, coffee.ID), transaction.ErrNotFound)
		require.NoError(t, s.DeleteTransaction(ctx, userID, coffee.ID))
		assert.ErrorIs(t, s.DeleteTransaction(ctx, userID, coffee.ID), transaction.ErrNotFound)

		_, err = s.GetTransaction(ctx, userID, coffee.ID)
		assert.ErrorIs(t, err, transaction.ErrNotFound)
	})
}
