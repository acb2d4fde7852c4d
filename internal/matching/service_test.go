package matching_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/matching"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

var (
	userID  = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	otherID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	want := &matching.Mapping{Pattern: "SWIGGY", Description: "Swiggy", Category: category.FoodDining}

	repo.EXPECT().FindMatch(gomock.Any(), userID, "UPI/SWIGGY/12345").Return(want, nil)
	repo.EXPECT().FindMatch(gomock.Any(), otherID, "UPI/SWIGGY/12345").Return(nil, nil)

	got, err := svc.Suggest(context.Background(), userID, "UPI/SWIGGY/12345")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = svc.Suggest(context.Background(), otherID, "UPI/SWIGGY/12345")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.Suggest(context.Background(), userID, "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name      string
		pattern   string
		desc      string
		cat       category.Category
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:    "Success",
			pattern: "  SWIGGY ",
			desc:    "Swiggy",
			cat:     category.FoodDining,
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().SaveMapping(gomock.Any(), matching.Mapping{
					UserID:      userID,
					Pattern:     "SWIGGY",
					Description: "Swiggy",
					Category:    category.FoodDining,
				}).Return(nil)
			},
		},
		{
			name:    "NoCategory",
			pattern: "ACME",
			desc:    "Acme Corp",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().SaveMapping(gomock.Any(), matching.Mapping{UserID: userID, Pattern: "ACME", Description: "Acme Corp"}).Return(nil)
			},
		},
		{
			name:      "EmptyPattern",
			pattern:   " ",
			desc:      "Swiggy",
			setupMock: func(m *matching.MockRepository) {},
			wantErr:   matching.ErrInvalidMapping,
		},
		{
			name:      "EmptyDescription",
			pattern:   "SWIGGY",
			setupMock: func(m *matching.MockRepository) {},
			wantErr:   matching.ErrInvalidMapping,
		},
		{
			name:      "UnknownCategory",
			pattern:   "SWIGGY",
			desc:      "Swiggy",
			cat:       category.Category("Takeaway"),
			setupMock: func(m *matching.MockRepository) {},
			wantErr:   matching.ErrInvalidMapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := matching.NewService(repo).Learn(context.Background(), userID, tt.pattern, tt.desc, tt.cat)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Apply(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	drafts := []transaction.Draft{
		{Amount: decimal.NewFromInt(250), Type: transaction.TypeExpense, Category: category.Other, Date: date, Description: "POS 4412 ACME STORES"},
		{Amount: decimal.NewFromInt(90), Type: transaction.TypeExpense, Category: category.FoodDining, Date: date, Description: "Swiggy"},
		{Amount: decimal.NewFromInt(40), Type: transaction.TypeExpense, Category: category.Transport, Date: date, Description: "Ola Ride"},
	}

	t.Run("RewritesMatches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := matching.NewMockRepository(ctrl)

		repo.EXPECT().FindMatch(gomock.Any(), userID, "POS 4412 ACME STORES").
			Return(&matching.Mapping{Pattern: "ACME", Description: "Acme Stores", Category: category.Groceries}, nil)
		repo.EXPECT().FindMatch(gomock.Any(), userID, "Swiggy").
			Return(&matching.Mapping{Pattern: "Swiggy", Description: "Swiggy Instamart"}, nil)
		repo.EXPECT().FindMatch(gomock.Any(), userID, "Ola Ride").Return(nil, nil)

		got, err := matching.NewService(repo).Apply(context.Background(), userID, drafts)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "Acme Stores", got[0].Description)
		assert.Equal(t, category.Groceries, got[0].Category)
		assert.Equal(t, "Swiggy Instamart", got[1].Description)
		assert.Equal(t, category.FoodDining, got[1].Category)
		assert.Equal(t, drafts[2], got[2])

		assert.Equal(t, "POS 4412 ACME STORES", drafts[0].Description)
	})

	t.Run("RepoError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := matching.NewMockRepository(ctrl)

		repo.EXPECT().FindMatch(gomock.Any(), userID, gomock.Any()).Return(nil, errors.New("db down"))

		_, err := matching.NewService(repo).Apply(context.Background(), userID, drafts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matching draft 0")
	})
}
