package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles expense and split data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// IsMember reports whether a user belongs to a group
func (r *Repository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM group_memberships
			WHERE group_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return exists, nil
}

// CreateExpense inserts a new expense into the database
func (r *Repository) CreateExpense(ctx context.Context, e *Expense) (*Expense, error) {
	query := `
		INSERT INTO expenses (group_id, paid_by, description, category, amount, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, paid_by, description, category, amount, date, created_at
	`

	created := &Expense{}
	err := r.db.QueryRowContext(ctx, query,
		e.GroupID,
		e.PaidBy,
		e.Description,
		e.Category,
		e.Amount,
		e.Date,
	).Scan(
		&created.ID,
		&created.GroupID,
		&created.PaidBy,
		&created.Description,
		&created.Category,
		&created.Amount,
		&created.Date,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return created, nil
}

// CreateSplit inserts a new split into the database
func (r *Repository) CreateSplit(ctx context.Context, sp *Split) (*Split, error) {
	query := `
		INSERT INTO expense_splits (expense_id, user_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, expense_id, user_id, amount, created_at
	`

	created := &Split{}
	err := r.db.QueryRowContext(ctx, query, sp.ExpenseID, sp.UserID, sp.Amount).Scan(
		&created.ID,
		&created.ExpenseID,
		&created.UserID,
		&created.Amount,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create split: %w", err)
	}

	return created, nil
}

// GetExpense retrieves an expense by its ID
func (r *Repository) GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.paid_by, e.description, e.category, e.amount, e.date, e.created_at,
		       COALESCE(p.username, 'Unknown')
		FROM expenses e
		LEFT JOIN profiles p ON e.paid_by = p.user_id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PaidBy,
		&expense.Description,
		&expense.Category,
		&expense.Amount,
		&expense.Date,
		&expense.CreatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetSplits retrieves all splits for an expense
func (r *Repository) GetSplits(ctx context.Context, expenseID uuid.UUID) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.created_at,
		       COALESCE(p.username, 'Unknown')
		FROM expense_splits s
		LEFT JOIN profiles p ON s.user_id = p.user_id
		WHERE s.expense_id = $1
		ORDER BY s.created_at, s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*Split
	for rows.Next() {
		sp := &Split{}
		if err := rows.Scan(
			&sp.ID,
			&sp.ExpenseID,
			&sp.UserID,
			&sp.Amount,
			&sp.CreatedAt,
			&sp.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, sp)
	}

	return splits, rows.Err()
}

// DeleteExpense removes an expense; its splits cascade
func (r *Repository) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return nil
}

// ListByGroup retrieves expenses for a group, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.paid_by, e.description, e.category, e.amount, e.date, e.created_at,
		       COALESCE(p.username, 'Unknown')
		FROM expenses e
		LEFT JOIN profiles p ON e.paid_by = p.user_id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PaidBy,
			&expense.Description,
			&expense.Category,
			&expense.Amount,
			&expense.Date,
			&expense.CreatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, rows.Err()
}
