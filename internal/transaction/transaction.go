package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spendsmart/spendsmart/internal/category"
)

var ErrNotFound = errors.New("transaction not found")

// Type represents the direction of a transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a persisted financial record.
type Transaction struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Amount         int64 // Amount in minor units (paise, cents)
	Type           Type
	Category       category.Category
	Description    string
	RawDescription string
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}
