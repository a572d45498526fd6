package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hamadkw/splitmate/internal/expense/split"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotAMember      = errors.New("not a member of this group")
	ErrNotPayer        = errors.New("only the payer can delete an expense")
	ErrSplitMismatch   = errors.New("splits do not equal total amount")
	ErrNoSplits        = errors.New("either splits or participants are required")
	ErrInvalidAmount   = errors.New("amount must be positive")
)

// Store is the storage access the expense service needs
type Store interface {
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	CreateExpense(ctx context.Context, e *Expense) (*Expense, error)
	CreateSplit(ctx context.Context, sp *Split) (*Split, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	GetSplits(ctx context.Context, expenseID uuid.UUID) ([]*Split, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	ListByGroup(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]*Expense, int, error)
}

// Service handles expense business logic
type Service struct {
	store        Store
	splitFactory *split.Factory
}

// NewService creates a new expense service with dependencies injected
func NewService(store Store, splitFactory *split.Factory) *Service {
	return &Service{
		store:        store,
		splitFactory: splitFactory,
	}
}

// CreateExpense validates the request, creates the expense row and its
// splits. When the splits insert fails the expense is deleted again so
// no orphaned expense is left behind. That cleanup is best effort, not
// a transaction: a crash between the two writes can still leave an
// expense with no splits.
func (s *Service) CreateExpense(ctx context.Context, payerID uuid.UUID, req *CreateExpenseRequest) (*Expense, error) {
	member, err := s.store.IsMember(ctx, req.GroupID, payerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotAMember
	}

	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	outputs, err := s.calculateSplits(req)
	if err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
		}
	}

	expense, err := s.store.CreateExpense(ctx, &Expense{
		GroupID:     req.GroupID,
		PaidBy:      payerID,
		Description: req.Description,
		Category:    category,
		Amount:      req.Amount,
		Date:        date,
	})
	if err != nil {
		return nil, err
	}

	splits := make([]*Split, len(outputs))
	for i, output := range outputs {
		sp, err := s.store.CreateSplit(ctx, &Split{
			ExpenseID: expense.ID,
			UserID:    output.UserID,
			Amount:    output.Amount,
		})
		if err != nil {
			// Compensating delete so no orphaned expense remains
			s.store.DeleteExpense(ctx, expense.ID)
			return nil, fmt.Errorf("failed to create splits: %w", err)
		}
		splits[i] = sp
	}

	expense.Splits = splits
	return expense, nil
}

// calculateSplits picks the split strategy for the request: exact
// amounts when splits are given, an even division over the listed
// participants otherwise.
func (s *Service) calculateSplits(req *CreateExpenseRequest) ([]split.Output, error) {
	var (
		splitType split.Type
		inputs    []split.Input
	)

	switch {
	case len(req.Splits) > 0:
		splitType = split.TypeExact
		inputs = make([]split.Input, len(req.Splits))
		for i, sp := range req.Splits {
			inputs[i] = sp.ToSplitInput()
		}
	case len(req.Participants) > 0:
		splitType = split.TypeEven
		inputs = make([]split.Input, len(req.Participants))
		for i, userID := range req.Participants {
			inputs[i] = split.Input{UserID: userID}
		}
	default:
		return nil, ErrNoSplits
	}

	strategy, err := s.splitFactory.Create(splitType)
	if err != nil {
		return nil, err
	}

	outputs, err := strategy.Calculate(req.Amount, inputs)
	if err != nil {
		if errors.Is(err, split.ErrSplitMismatch) {
			return nil, ErrSplitMismatch
		}
		return nil, err
	}

	return outputs, nil
}

// GetExpense retrieves an expense with its splits; the caller must be
// a member of the expense's group
func (s *Service) GetExpense(ctx context.Context, callerID, id uuid.UUID) (*Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	member, err := s.store.IsMember(ctx, expense.GroupID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotAMember
	}

	splits, err := s.store.GetSplits(ctx, id)
	if err != nil {
		return nil, err
	}

	expense.Splits = splits
	return expense, nil
}

// ListByGroup retrieves a group's expenses for a member
func (s *Service) ListByGroup(ctx context.Context, callerID, groupID uuid.UUID, page, perPage int) ([]*Expense, int, error) {
	member, err := s.store.IsMember(ctx, groupID, callerID)
	if err != nil {
		return nil, 0, err
	}
	if !member {
		return nil, 0, ErrNotAMember
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListByGroup(ctx, groupID, perPage, offset)
}

// DeleteExpense removes an expense; only the payer may do so
func (s *Service) DeleteExpense(ctx context.Context, callerID, id uuid.UUID) error {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}

	if expense.PaidBy != callerID {
		return ErrNotPayer
	}

	return s.store.DeleteExpense(ctx, id)
}
