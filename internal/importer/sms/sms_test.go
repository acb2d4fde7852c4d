package sms_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendsmart/spendsmart/internal/category"
	"github.com/spendsmart/spendsmart/internal/importer/sms"
	"github.com/spendsmart/spendsmart/internal/transaction"
)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestExtractor_Extract(t *testing.T) {
	type testCase struct {
		name string
		blob string
		want []transaction.Draft
	}

	tests := []testCase{
		{
			name: "DebitWithKnownMerchant",
			blob: "HDFC: Rs 500 debited for Zomato on 12-04-2024.",
			want: []transaction.Draft{{
				Amount:      decimal.NewFromInt(500),
				Type:        transaction.TypeExpense,
				Category:    category.FoodDining,
				Date:        date(2024, 4, 12),
				Description: "Zomato",
			}},
		},
		{
			name: "CreditWithoutDate",
			blob: "Credited Rs 50000 Salary.",
			want: []transaction.Draft{{
				Amount:      decimal.NewFromInt(50000),
				Type:        transaction.TypeIncome,
				Category:    category.Salary,
				Date:        today,
				Description: "Salary",
			}},
		},
		{
			name: "CounterpartyPhrase",
			blob: "Rs.1,250.50 paid to BIG BAZAAR GROCERY via UPI ref 4411",
			want: []transaction.Draft{{
				Amount:      decimal.RequireFromString("1250.50"),
				Type:        transaction.TypeExpense,
				Category:    category.Groceries,
				Date:        today,
				Description: "Big Bazaar Grocery",
			}},
		},
		{
			name: "VPAFallback",
			blob: "INR 300 debited from A/c XX12 UPI swiggy@icici 05/03/24",
			want: []transaction.Draft{{
				Amount:      decimal.NewFromInt(300),
				Type:        transaction.TypeExpense,
				Category:    category.FoodDining,
				Date:        date(2024, 3, 5),
				Description: "Swiggy@icici",
			}},
		},
		{
			name: "ReceivedFromPhrase",
			blob: "You have received ₹2,000 from Rahul Sharma on 01-06-2024",
			want: []transaction.Draft{{
				Amount:      decimal.NewFromInt(2000),
				Type:        transaction.TypeIncome,
				Category:    category.Other,
				Date:        date(2024, 6, 1),
				Description: "Rahul Sharma",
			}},
		},
		{
			name: "UnknownDescription",
			blob: "Rs 99 spent on your card ending 1234",
			want: []transaction.Draft{{
				Amount:      decimal.NewFromInt(99),
				Type:        transaction.TypeExpense,
				Category:    category.Other,
				Date:        today,
				Description: "Unknown Transaction",
			}},
		},
		{
			name: "InvalidDateFallsBackToToday",
			blob: "Rs 120 debited at Uber on 31-02-2024",
			want: []transaction.Draft{{
				Amount:      decimal.NewFromInt(120),
				Type:        transaction.TypeExpense,
				Category:    category.Transport,
				Date:        today,
				Description: "Uber",
			}},
		},
		{
			name: "NoDirection",
			blob: "Your OTP for login is 123456. Rs 500 balance reminder",
			want: nil,
		},
		{
			name: "NoAmount",
			blob: "Amount debited from your account for Swiggy",
			want: nil,
		},
		{
			name: "ZeroAmount",
			blob: "Rs 0.00 debited for card verification",
			want: nil,
		},
		{
			name: "ShortLinesDropped",
			blob: "paid Rs1\nok",
			want: nil,
		},
		{
			name: "Empty",
			blob: "",
			want: nil,
		},
	}

	e := sms.New(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.blob, today)
			require.Len(t, got, len(tt.want))

			for i := range tt.want {
				assert.True(t, tt.want[i].Amount.Equal(got[i].Amount), "amount: want %s got %s", tt.want[i].Amount, got[i].Amount)
				assert.Equal(t, tt.want[i].Type, got[i].Type)
				assert.Equal(t, tt.want[i].Category, got[i].Category)
				assert.Equal(t, tt.want[i].Date, got[i].Date)
				assert.Equal(t, tt.want[i].Description, got[i].Description)
			}
		})
	}
}

func TestExtractor_Extract_MultipleMessages(t *testing.T) {
	blob := strings.Join([]string{
		"Rs. 450 debited for Swiggy on 10-06-2024. Avl Bal Rs. 12,000.00",
		"Rs 450 debited for Swiggy on 10-06-2024.",
		"Dear customer, thank you for banking with us",
		"INR 75,000 credited to your account. Info: Salary for May",
	}, "\n")

	got := sms.New(nil).Extract(blob, today)
	require.Len(t, got, 3)

	assert.Equal(t, "Swiggy", got[0].Description)
	assert.True(t, decimal.NewFromInt(450).Equal(got[0].Amount))
	assert.Equal(t, got[0], got[1])

	assert.Equal(t, transaction.TypeIncome, got[2].Type)
	assert.True(t, decimal.NewFromInt(75000).Equal(got[2].Amount))
}

func TestExtractor_Extract_Properties(t *testing.T) {
	e := sms.New(nil)

	t.Run("AmountStripsSeparators", func(t *testing.T) {
		for _, amt := range []string{"1", "12.5", "1,234", "1,00,000.75", "99.99", "10,50,000"} {
			got := e.Extract(fmt.Sprintf("Rs %s debited at Amazon", amt), today)
			require.Len(t, got, 1, amt)

			want := decimal.RequireFromString(strings.ReplaceAll(amt, ",", ""))
			assert.True(t, want.Equal(got[0].Amount), "want %s got %s", want, got[0].Amount)
		}
	})

	t.Run("KeywordsDecideDirection", func(t *testing.T) {
		for _, kw := range []string{"credited", "received", "deposited", "added"} {
			got := e.Extract("Rs 100 "+kw+" to wallet", today)
			require.Len(t, got, 1, kw)
			assert.Equal(t, transaction.TypeIncome, got[0].Type, kw)
		}

		for _, kw := range []string{"debited", "spent", "paid", "sent", "withdrawn"} {
			got := e.Extract("Rs 100 "+kw+" at ATM", today)
			require.Len(t, got, 1, kw)
			assert.Equal(t, transaction.TypeExpense, got[0].Type, kw)
		}
	})

	t.Run("OutputPassesValidation", func(t *testing.T) {
		got := e.Extract("Rs 500 debited for Zomato on 12-04-2024.\nCredited Rs 50000 Salary.", today)
		require.Len(t, got, 2)
		assert.NoError(t, transaction.ValidateDrafts(got))
	})

	t.Run("Deterministic", func(t *testing.T) {
		blob := "Rs 500 debited for Zomato on 12-04-2024.\nINR 20 paid to Ola"
		assert.Equal(t, e.Extract(blob, today), e.Extract(blob, today))
	})

	t.Run("TodayIsTruncated", func(t *testing.T) {
		now := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)
		got := e.Extract("Credited Rs 50000 Salary.", now)
		require.Len(t, got, 1)
		assert.Equal(t, today, got[0].Date)
	})
}

func TestExtractor_CustomTable(t *testing.T) {
	table, err := category.NewTable([]category.Rule{
		{Category: category.Education, Keywords: []string{"zomato"}},
	})
	require.NoError(t, err)

	got := sms.New(table).Extract("HDFC: Rs 500 debited for Zomato on 12-04-2024.", today)
	require.Len(t, got, 1)
	assert.Equal(t, category.Education, got[0].Category)
}

func TestNormalizeDate(t *testing.T) {
	type testCase struct {
		name    string
		d, m, y string
		want    time.Time
		wantOK  bool
	}

	tests := []testCase{
		{name: "FourDigitYear", d: "12", m: "04", y: "2024", want: date(2024, 4, 12), wantOK: true},
		{name: "TwoDigitYear", d: "05", m: "03", y: "24", want: date(2024, 3, 5), wantOK: true},
		{name: "SingleDigits", d: "1", m: "2", y: "25", want: date(2025, 2, 1), wantOK: true},
		{name: "LeapDay", d: "29", m: "02", y: "2024", want: date(2024, 2, 29), wantOK: true},
		{name: "NotLeapYear", d: "29", m: "02", y: "2023"},
		{name: "MonthOutOfRange", d: "01", m: "13", y: "2024"},
		{name: "DayZero", d: "0", m: "1", y: "2024"},
		{name: "ThreeDigitYear", d: "01", m: "01", y: "202"},
		{name: "NotNumeric", d: "aa", m: "01", y: "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sms.NormalizeDate(tt.d, tt.m, tt.y)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
