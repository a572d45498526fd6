package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense represents a single recorded cost in a group, paid by one
// member and divided into splits
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	GroupID     uuid.UUID       `json:"group_id"`
	PaidBy      uuid.UUID       `json:"paid_by"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`

	Splits []*Split `json:"splits,omitempty"`
}

// Split is a line item assigning part of an expense's amount to a
// specific member's share. The payer is usually present in the splits
// too; their share nets against the amount they fronted.
type Split struct {
	ID        uuid.UUID       `json:"id"`
	ExpenseID uuid.UUID       `json:"expense_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}
