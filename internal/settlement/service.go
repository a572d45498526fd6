package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hamadkw/splitmate/internal/expense"
	"github.com/hamadkw/splitmate/internal/metrics"
)

// Common errors
var (
	ErrNotAMember      = errors.New("not a member of this group")
	ErrEmptyPlan       = errors.New("no settlements to record")
	ErrInvalidTransfer = errors.New("transfer must be a positive amount between two distinct group members")
)

// Store is the storage access the settlement engine needs. It is
// injected explicitly so the service never reaches for ambient state
// and tests can run against an in-memory fake.
type Store interface {
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	Members(ctx context.Context, groupID uuid.UUID) ([]Member, error)
	Expenses(ctx context.Context, groupID uuid.UUID) ([]*expense.Expense, error)
	Record(ctx context.Context, groupID uuid.UUID, transfers []Transfer) ([]*Settlement, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Settlement, error)
	DeleteByGroup(ctx context.Context, groupID uuid.UUID) error
}

// Service handles settlement business logic. Every operation is a
// stateless read-then-compute over current data, so concurrent calls
// for the same group are safe without locking.
type Service struct {
	store Store
}

// NewService creates a new settlement service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// authorize confirms the caller belongs to the group
func (s *Service) authorize(ctx context.Context, groupID, callerID uuid.UUID) error {
	member, err := s.store.IsMember(ctx, groupID, callerID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotAMember
	}
	return nil
}

// ComputeBalances derives the current net balance of every group
// member from the group's expenses and splits. Pure read, no side
// effects.
func (s *Service) ComputeBalances(ctx context.Context, callerID, groupID uuid.UUID) ([]MemberBalance, error) {
	if err := s.authorize(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	members, err := s.store.Members(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}

	expenses, err := s.store.Expenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group expenses: %w", err)
	}

	return ComputeBalances(members, expenses), nil
}

// ComputeSettlements computes balances and the minimal ordered list of
// transfers that zeroes them. The returned balances are the
// pre-transfer values.
func (s *Service) ComputeSettlements(ctx context.Context, callerID, groupID uuid.UUID) (*Plan, error) {
	start := time.Now()

	balances, err := s.ComputeBalances(ctx, callerID, groupID)
	if err != nil {
		return nil, err
	}

	transfers := MinTransfers(balances)
	if transfers == nil {
		transfers = []Transfer{}
	}

	metrics.SettlementComputations.Inc()
	metrics.SettlementTransfers.Add(float64(len(transfers)))
	metrics.SettlementDuration.Observe(time.Since(start).Seconds())

	return &Plan{
		Balances:          balances,
		Settlements:       transfers,
		TotalTransactions: len(transfers),
	}, nil
}

// RecordSettlements persists an acted-upon plan as settlement records.
// Every transfer must be a positive amount between two distinct group
// members.
func (s *Service) RecordSettlements(ctx context.Context, callerID, groupID uuid.UUID, transfers []Transfer) ([]*Settlement, error) {
	if err := s.authorize(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	if len(transfers) == 0 {
		return nil, ErrEmptyPlan
	}

	members, err := s.store.Members(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	isMember := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		isMember[m.UserID] = true
	}

	for _, t := range transfers {
		if !t.Amount.IsPositive() || t.FromUser == t.ToUser || !isMember[t.FromUser] || !isMember[t.ToUser] {
			return nil, ErrInvalidTransfer
		}
	}

	recorded, err := s.store.Record(ctx, groupID, transfers)
	if err != nil {
		return nil, fmt.Errorf("failed to record settlements: %w", err)
	}

	return recorded, nil
}

// ListByGroup returns the group's persisted settlement history
func (s *Service) ListByGroup(ctx context.Context, callerID, groupID uuid.UUID) ([]*Settlement, error) {
	if err := s.authorize(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	return s.store.ListByGroup(ctx, groupID)
}

// ResetSettlements deletes the group's settlement records. Expenses
// and splits are retained; only the settlement log is cleared.
// Deleting an already-empty log is a no-op, so the operation is
// idempotent.
func (s *Service) ResetSettlements(ctx context.Context, callerID, groupID uuid.UUID) error {
	if err := s.authorize(ctx, groupID, callerID); err != nil {
		return err
	}

	if err := s.store.DeleteByGroup(ctx, groupID); err != nil {
		return fmt.Errorf("failed to reset settlements: %w", err)
	}

	return nil
}
