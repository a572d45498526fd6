package settlement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadkw/splitmate/internal/expense"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	members  []Member
	expenses []*expense.Expense
	recorded []*Settlement

	deleteCalls int
}

func (f *fakeStore) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	for _, m := range f.members {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Members(ctx context.Context, groupID uuid.UUID) ([]Member, error) {
	return f.members, nil
}

func (f *fakeStore) Expenses(ctx context.Context, groupID uuid.UUID) ([]*expense.Expense, error) {
	return f.expenses, nil
}

func (f *fakeStore) Record(ctx context.Context, groupID uuid.UUID, transfers []Transfer) ([]*Settlement, error) {
	var recorded []*Settlement
	for _, t := range transfers {
		s := &Settlement{
			ID:       uuid.New(),
			GroupID:  groupID,
			FromUser: t.FromUser,
			ToUser:   t.ToUser,
			Amount:   t.Amount,
			Status:   "completed",
		}
		f.recorded = append(f.recorded, s)
		recorded = append(recorded, s)
	}
	return recorded, nil
}

func (f *fakeStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Settlement, error) {
	return f.recorded, nil
}

func (f *fakeStore) DeleteByGroup(ctx context.Context, groupID uuid.UUID) error {
	f.deleteCalls++
	f.recorded = nil
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := &fakeStore{
		members: members(alice, bob, carol),
		expenses: []*expense.Expense{
			evenExpense(alice, "90.00", "30.00", alice, bob, carol),
			evenExpense(bob, "60.00", "20.00", alice, bob, carol),
		},
	}
	return NewService(store), store
}

func TestServiceComputeSettlements(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects callers outside the group", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.ComputeSettlements(ctx, dave, uuid.New())

		assert.ErrorIs(t, err, ErrNotAMember)
	})

	t.Run("returns balances and transfers", func(t *testing.T) {
		svc, _ := newTestService()

		plan, err := svc.ComputeSettlements(ctx, alice, uuid.New())

		require.NoError(t, err)
		require.Len(t, plan.Balances, 3)
		require.Len(t, plan.Settlements, 2)
		assert.Equal(t, 2, plan.TotalTransactions)
		assert.Equal(t, carol, plan.Settlements[0].FromUser)
		assert.Equal(t, alice, plan.Settlements[0].ToUser)
	})

	t.Run("settled group yields an empty transfer list, not nil", func(t *testing.T) {
		svc := NewService(&fakeStore{members: members(alice, bob)})

		plan, err := svc.ComputeSettlements(ctx, alice, uuid.New())

		require.NoError(t, err)
		assert.NotNil(t, plan.Settlements)
		assert.Empty(t, plan.Settlements)
		assert.Zero(t, plan.TotalTransactions)
	})
}

func TestServiceRecordSettlements(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a valid plan", func(t *testing.T) {
		svc, store := newTestService()
		transfers := []Transfer{
			{FromUser: carol, ToUser: alice, Amount: amt("40.00")},
			{FromUser: carol, ToUser: bob, Amount: amt("10.00")},
		}

		recorded, err := svc.RecordSettlements(ctx, alice, uuid.New(), transfers)

		require.NoError(t, err)
		assert.Len(t, recorded, 2)
		assert.Len(t, store.recorded, 2)
	})

	t.Run("rejects an empty plan", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.RecordSettlements(ctx, alice, uuid.New(), nil)

		assert.ErrorIs(t, err, ErrEmptyPlan)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, _ := newTestService()
		transfers := []Transfer{{FromUser: carol, ToUser: alice, Amount: amt("0")}}

		_, err := svc.RecordSettlements(ctx, alice, uuid.New(), transfers)

		assert.ErrorIs(t, err, ErrInvalidTransfer)
	})

	t.Run("rejects self transfers", func(t *testing.T) {
		svc, _ := newTestService()
		transfers := []Transfer{{FromUser: carol, ToUser: carol, Amount: amt("5.00")}}

		_, err := svc.RecordSettlements(ctx, alice, uuid.New(), transfers)

		assert.ErrorIs(t, err, ErrInvalidTransfer)
	})

	t.Run("rejects transfers touching non-members", func(t *testing.T) {
		svc, _ := newTestService()
		transfers := []Transfer{{FromUser: dave, ToUser: alice, Amount: amt("5.00")}}

		_, err := svc.RecordSettlements(ctx, alice, uuid.New(), transfers)

		assert.ErrorIs(t, err, ErrInvalidTransfer)
	})
}

func TestServiceResetSettlements(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the settlement log and nothing else", func(t *testing.T) {
		svc, store := newTestService()
		_, err := svc.RecordSettlements(ctx, alice, uuid.New(), []Transfer{
			{FromUser: carol, ToUser: alice, Amount: amt("40.00")},
		})
		require.NoError(t, err)

		require.NoError(t, svc.ResetSettlements(ctx, alice, uuid.New()))

		assert.Empty(t, store.recorded)
		assert.Len(t, store.expenses, 2, "expenses must survive a reset")
	})

	t.Run("is idempotent on an empty log", func(t *testing.T) {
		svc, store := newTestService()

		require.NoError(t, svc.ResetSettlements(ctx, alice, uuid.New()))
		require.NoError(t, svc.ResetSettlements(ctx, alice, uuid.New()))

		assert.Equal(t, 2, store.deleteCalls)
	})

	t.Run("rejects callers outside the group", func(t *testing.T) {
		svc, _ := newTestService()

		assert.ErrorIs(t, svc.ResetSettlements(ctx, dave, uuid.New()), ErrNotAMember)
	})
}

func TestServiceComputeBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("has no side effects", func(t *testing.T) {
		svc, store := newTestService()

		_, err := svc.ComputeBalances(ctx, alice, uuid.New())

		require.NoError(t, err)
		assert.Empty(t, store.recorded)
		assert.Zero(t, store.deleteCalls)
	})
}
