package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Member is the slice of group membership the engine needs
type Member struct {
	UserID   uuid.UUID
	Username string
}

// MemberBalance is a member's net position in a group. Positive means
// the group owes them money, negative means they owe the group. The
// balances of a group always sum to zero because every expense amount
// is fully distributed across its splits.
type MemberBalance struct {
	UserID   uuid.UUID       `json:"user_id"`
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
}

// Transfer is a suggested payment from one member to another that
// reduces outstanding balances
type Transfer struct {
	FromUser     uuid.UUID       `json:"from_user"`
	ToUser       uuid.UUID       `json:"to_user"`
	Amount       decimal.Decimal `json:"amount"`
	FromUsername string          `json:"from_username,omitempty"`
	ToUsername   string          `json:"to_username,omitempty"`
}

// Plan is the full output of a settlement computation: the balances it
// was derived from and the ordered transfers that zero them out
type Plan struct {
	Balances          []MemberBalance `json:"balances"`
	Settlements       []Transfer      `json:"settlements"`
	TotalTransactions int             `json:"total_transactions"`
}

// Settlement is a persisted record of a completed transfer
type Settlement struct {
	ID        uuid.UUID       `json:"id"`
	GroupID   uuid.UUID       `json:"group_id"`
	FromUser  uuid.UUID       `json:"from_user"`
	ToUser    uuid.UUID       `json:"to_user"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`

	// Populated via JOIN
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}
