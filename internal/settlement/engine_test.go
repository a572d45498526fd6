package settlement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadkw/splitmate/internal/expense"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	bob   = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	carol = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	dave  = uuid.MustParse("00000000-0000-0000-0000-000000000004")
)

func members(ids ...uuid.UUID) []Member {
	names := map[uuid.UUID]string{alice: "alice", bob: "bob", carol: "carol", dave: "dave"}
	ms := make([]Member, len(ids))
	for i, id := range ids {
		ms[i] = Member{UserID: id, Username: names[id]}
	}
	return ms
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func evenExpense(paidBy uuid.UUID, total string, share string, participants ...uuid.UUID) *expense.Expense {
	e := &expense.Expense{PaidBy: paidBy, Amount: amt(total)}
	for _, p := range participants {
		e.Splits = append(e.Splits, &expense.Split{UserID: p, Amount: amt(share)})
	}
	return e
}

func balanceOf(t *testing.T, balances []MemberBalance, userID uuid.UUID) decimal.Decimal {
	t.Helper()
	for _, b := range balances {
		if b.UserID == userID {
			return b.Balance
		}
	}
	t.Fatalf("no balance for %s", userID)
	return decimal.Zero
}

func TestComputeBalances(t *testing.T) {
	t.Run("credits payer and debits split participants", func(t *testing.T) {
		expenses := []*expense.Expense{
			evenExpense(alice, "90.00", "30.00", alice, bob, carol),
			evenExpense(bob, "60.00", "20.00", alice, bob, carol),
		}

		balances := ComputeBalances(members(alice, bob, carol), expenses)

		require.Len(t, balances, 3)
		assert.True(t, balanceOf(t, balances, alice).Equal(amt("40.00")))
		assert.True(t, balanceOf(t, balances, bob).Equal(amt("10.00")))
		assert.True(t, balanceOf(t, balances, carol).Equal(amt("-50.00")))
	})

	t.Run("includes members with a zero balance", func(t *testing.T) {
		expenses := []*expense.Expense{
			evenExpense(alice, "40.00", "20.00", alice, bob),
		}

		balances := ComputeBalances(members(alice, bob, carol), expenses)

		require.Len(t, balances, 3)
		assert.True(t, balanceOf(t, balances, carol).IsZero())
	})

	t.Run("skips payers and participants who left the group", func(t *testing.T) {
		expenses := []*expense.Expense{
			evenExpense(dave, "30.00", "15.00", alice, bob),
			evenExpense(alice, "20.00", "10.00", alice, dave),
		}

		balances := ComputeBalances(members(alice, bob), expenses)

		require.Len(t, balances, 2)
		// dave's payment is dropped; his split share is dropped too
		assert.True(t, balanceOf(t, balances, alice).Equal(amt("-5.00")))
		assert.True(t, balanceOf(t, balances, bob).Equal(amt("-15.00")))
	})

	t.Run("balances sum to zero when all parties are members", func(t *testing.T) {
		expenses := []*expense.Expense{
			evenExpense(alice, "100.00", "25.00", alice, bob, carol, dave),
			evenExpense(carol, "33.00", "11.00", alice, bob, carol),
			evenExpense(bob, "7.50", "3.75", bob, dave),
		}

		balances := ComputeBalances(members(alice, bob, carol, dave), expenses)

		sum := decimal.Zero
		for _, b := range balances {
			sum = sum.Add(b.Balance)
		}
		assert.True(t, sum.IsZero(), "expected zero sum, got %s", sum)
	})

	t.Run("no expenses yields all-zero balances", func(t *testing.T) {
		balances := ComputeBalances(members(alice, bob), nil)

		require.Len(t, balances, 2)
		for _, b := range balances {
			assert.True(t, b.Balance.IsZero())
		}
	})
}

func TestMinTransfers(t *testing.T) {
	t.Run("pairs biggest debtor with biggest creditor", func(t *testing.T) {
		balances := []MemberBalance{
			{UserID: alice, Username: "alice", Balance: amt("40.00")},
			{UserID: bob, Username: "bob", Balance: amt("10.00")},
			{UserID: carol, Username: "carol", Balance: amt("-50.00")},
		}

		transfers := MinTransfers(balances)

		require.Len(t, transfers, 2)
		assert.Equal(t, carol, transfers[0].FromUser)
		assert.Equal(t, alice, transfers[0].ToUser)
		assert.True(t, transfers[0].Amount.Equal(amt("40.00")))
		assert.Equal(t, carol, transfers[1].FromUser)
		assert.Equal(t, bob, transfers[1].ToUser)
		assert.True(t, transfers[1].Amount.Equal(amt("10.00")))
	})

	t.Run("returns nothing when everyone is settled", func(t *testing.T) {
		balances := []MemberBalance{
			{UserID: alice, Balance: decimal.Zero},
			{UserID: bob, Balance: decimal.Zero},
		}

		assert.Empty(t, MinTransfers(balances))
	})

	t.Run("ignores balances within the one cent tolerance", func(t *testing.T) {
		balances := []MemberBalance{
			{UserID: alice, Balance: amt("0.01")},
			{UserID: bob, Balance: amt("-0.01")},
		}

		assert.Empty(t, MinTransfers(balances))
	})

	t.Run("single two-party debt needs one transfer", func(t *testing.T) {
		balances := []MemberBalance{
			{UserID: alice, Balance: amt("25.50")},
			{UserID: bob, Balance: amt("-25.50")},
		}

		transfers := MinTransfers(balances)

		require.Len(t, transfers, 1)
		assert.Equal(t, bob, transfers[0].FromUser)
		assert.Equal(t, alice, transfers[0].ToUser)
		assert.True(t, transfers[0].Amount.Equal(amt("25.50")))
	})

	t.Run("never exceeds n-1 transfers", func(t *testing.T) {
		balances := []MemberBalance{
			{UserID: alice, Balance: amt("17.25")},
			{UserID: bob, Balance: amt("-4.75")},
			{UserID: carol, Balance: amt("-8.30")},
			{UserID: dave, Balance: amt("-4.20")},
		}

		transfers := MinTransfers(balances)

		assert.LessOrEqual(t, len(transfers), len(balances)-1)
	})

	t.Run("applying the transfers settles every balance", func(t *testing.T) {
		balances := []MemberBalance{
			{UserID: alice, Balance: amt("33.33")},
			{UserID: bob, Balance: amt("-11.11")},
			{UserID: carol, Balance: amt("-22.22")},
			{UserID: dave, Balance: decimal.Zero},
		}

		transfers := MinTransfers(balances)

		remaining := make(map[uuid.UUID]decimal.Decimal, len(balances))
		for _, b := range balances {
			remaining[b.UserID] = b.Balance
		}
		for _, tr := range transfers {
			assert.True(t, tr.Amount.IsPositive())
			remaining[tr.FromUser] = remaining[tr.FromUser].Add(tr.Amount)
			remaining[tr.ToUser] = remaining[tr.ToUser].Sub(tr.Amount)
		}

		for userID, b := range remaining {
			assert.True(t, b.Abs().Cmp(tolerance) <= 0, "user %s left with %s", userID, b)
		}
	})

	t.Run("does not mutate the input balances", func(t *testing.T) {
		balances := []MemberBalance{
			{UserID: alice, Balance: amt("10.00")},
			{UserID: bob, Balance: amt("-10.00")},
		}

		MinTransfers(balances)

		assert.True(t, balances[0].Balance.Equal(amt("10.00")))
		assert.True(t, balances[1].Balance.Equal(amt("-10.00")))
	})
}
