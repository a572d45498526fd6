package expense

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hamadkw/splitmate/internal/expense/split"
)

// CreateExpenseRequest represents the request to create an expense.
// Splits carry exact per-member amounts; when Splits is empty the
// amount is divided evenly among Participants instead.
type CreateExpenseRequest struct {
	GroupID      uuid.UUID       `json:"group_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Category     string          `json:"category,omitempty"`
	Date         string          `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Splits       []*SplitInput   `json:"splits,omitempty"`
	Participants []uuid.UUID     `json:"participants,omitempty"`
}

// SplitInput is a single split line in a create request
type SplitInput struct {
	UserID uuid.UUID       `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// ToSplitInput converts to the split package's input type
func (s *SplitInput) ToSplitInput() split.Input {
	amount := s.Amount
	return split.Input{UserID: s.UserID, Amount: &amount}
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            uuid.UUID        `json:"id"`
	GroupID       uuid.UUID        `json:"group_id"`
	PaidBy        uuid.UUID        `json:"paid_by"`
	PayerUsername string           `json:"payer_username,omitempty"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Amount        decimal.Decimal  `json:"amount"`
	Date          string           `json:"date"`
	CreatedAt     string           `json:"created_at"`
	Splits        []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID        uuid.UUID       `json:"id"`
	ExpenseID uuid.UUID       `json:"expense_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Username  string          `json:"username,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PaidBy:        e.PaidBy,
		PayerUsername: e.PayerUsername,
		Description:   e.Description,
		Category:      e.Category,
		Amount:        e.Amount,
		Date:          e.Date.Format("2006-01-02"),
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, s := range e.Splits {
		resp.Splits = append(resp.Splits, s.ToResponse())
	}
	return resp
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:        s.ID,
		ExpenseID: s.ExpenseID,
		UserID:    s.UserID,
		Username:  s.Username,
		Amount:    s.Amount,
	}
}
