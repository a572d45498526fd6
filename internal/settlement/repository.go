package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hamadkw/splitmate/internal/expense"
)

// Repository is the Postgres implementation of Store
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
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

// Members retrieves the group's members in join order, which makes
// tie-breaking in the greedy algorithm deterministic for a dataset
func (r *Repository) Members(ctx context.Context, groupID uuid.UUID) ([]Member, error) {
	query := `
		SELECT gm.user_id, COALESCE(p.username, 'Unknown')
		FROM group_memberships gm
		LEFT JOIN profiles p ON gm.user_id = p.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at, gm.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Username); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// Expenses retrieves the group's expenses with their splits. Only the
// columns the balance computation needs are selected.
func (r *Repository) Expenses(ctx context.Context, groupID uuid.UUID) ([]*expense.Expense, error) {
	query := `
		SELECT id, paid_by, amount
		FROM expenses
		WHERE group_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	byID := make(map[uuid.UUID]*expense.Expense)
	for rows.Next() {
		e := &expense.Expense{GroupID: groupID}
		if err := rows.Scan(&e.ID, &e.PaidBy, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}

	splitQuery := `
		SELECT s.expense_id, s.user_id, s.amount
		FROM expense_splits s
		JOIN expenses e ON s.expense_id = e.id
		WHERE e.group_id = $1
	`

	splitRows, err := r.db.QueryContext(ctx, splitQuery, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		sp := &expense.Split{}
		if err := splitRows.Scan(&sp.ExpenseID, &sp.UserID, &sp.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if e, ok := byID[sp.ExpenseID]; ok {
			e.Splits = append(e.Splits, sp)
		}
	}

	return expenses, splitRows.Err()
}

// Record inserts settlement rows for an acted-upon plan
func (r *Repository) Record(ctx context.Context, groupID uuid.UUID, transfers []Transfer) ([]*Settlement, error) {
	query := `
		INSERT INTO settlements (group_id, from_user, to_user, amount, status, completed_at)
		VALUES ($1, $2, $3, $4, 'completed', now())
		RETURNING id, group_id, from_user, to_user, amount, status, created_at
	`

	settlements := make([]*Settlement, len(transfers))
	for i, t := range transfers {
		s := &Settlement{}
		err := r.db.QueryRowContext(ctx, query, groupID, t.FromUser, t.ToUser, t.Amount).Scan(
			&s.ID,
			&s.GroupID,
			&s.FromUser,
			&s.ToUser,
			&s.Amount,
			&s.Status,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to record settlement: %w", err)
		}
		settlements[i] = s
	}

	return settlements, nil
}

// ListByGroup retrieves the group's settlement records, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Settlement, error) {
	query := `
		SELECT s.id, s.group_id, s.from_user, s.to_user, s.amount, s.status, s.created_at,
		       COALESCE(pf.username, 'Unknown'), COALESCE(pt.username, 'Unknown')
		FROM settlements s
		LEFT JOIN profiles pf ON s.from_user = pf.user_id
		LEFT JOIN profiles pt ON s.to_user = pt.user_id
		WHERE s.group_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s := &Settlement{}
		if err := rows.Scan(
			&s.ID,
			&s.GroupID,
			&s.FromUser,
			&s.ToUser,
			&s.Amount,
			&s.Status,
			&s.CreatedAt,
			&s.FromUsername,
			&s.ToUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, rows.Err()
}

// DeleteByGroup removes all settlement records for a group. Expenses
// and splits are untouched.
func (r *Repository) DeleteByGroup(ctx context.Context, groupID uuid.UUID) error {
	query := `DELETE FROM settlements WHERE group_id = $1`

	if _, err := r.db.ExecContext(ctx, query, groupID); err != nil {
		return fmt.Errorf("failed to delete settlements: %w", err)
	}

	return nil
}
