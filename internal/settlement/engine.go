package settlement

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hamadkw/splitmate/internal/expense"
)

// tolerance under which a balance counts as settled (one cent)
var tolerance = decimal.New(1, -2)

// ComputeBalances derives each member's net balance from the group's
// expenses. The payer of an expense is credited its full amount and
// every split participant is debited their share; a payer who also
// appears in the splits nets the difference through those two
// operations. Members with a zero balance are included. Expense payers
// or split participants who are no longer group members are skipped.
func ComputeBalances(members []Member, expenses []*expense.Expense) []MemberBalance {
	index := make(map[uuid.UUID]int, len(members))
	balances := make([]MemberBalance, len(members))
	for i, m := range members {
		balances[i] = MemberBalance{
			UserID:   m.UserID,
			Username: m.Username,
			Balance:  decimal.Zero,
		}
		index[m.UserID] = i
	}

	for _, e := range expenses {
		if i, ok := index[e.PaidBy]; ok {
			balances[i].Balance = balances[i].Balance.Add(e.Amount)
		}
		for _, sp := range e.Splits {
			if i, ok := index[sp.UserID]; ok {
				balances[i].Balance = balances[i].Balance.Sub(sp.Amount)
			}
		}
	}

	for i := range balances {
		balances[i].Balance = balances[i].Balance.Round(2)
	}

	return balances
}

// MinTransfers produces an ordered list of transfers that settles all
// balances, greedily pairing the biggest debtor with the biggest
// creditor. The result has at most n-1 transfers for n members with a
// non-trivial balance; the count is a practical minimum, not a proven
// global one. Ties keep member order via the stable sort.
func MinTransfers(balances []MemberBalance) []Transfer {
	working := make([]MemberBalance, 0, len(balances))
	for _, b := range balances {
		if b.Balance.Abs().Cmp(tolerance) > 0 {
			working = append(working, b)
		}
	}

	var transfers []Transfer
	for len(working) > 1 {
		sort.SliceStable(working, func(i, j int) bool {
			return working[i].Balance.Cmp(working[j].Balance) < 0
		})

		debtor := &working[0]
		creditor := &working[len(working)-1]

		// No productive transfer remains when either end is within
		// tolerance of settled
		if debtor.Balance.Cmp(tolerance.Neg()) >= 0 || creditor.Balance.Cmp(tolerance) <= 0 {
			break
		}

		amount := decimal.Min(debtor.Balance.Neg(), creditor.Balance).Round(2)
		transfers = append(transfers, Transfer{
			FromUser:     debtor.UserID,
			ToUser:       creditor.UserID,
			Amount:       amount,
			FromUsername: debtor.Username,
			ToUsername:   creditor.Username,
		})

		debtor.Balance = debtor.Balance.Add(amount)
		creditor.Balance = creditor.Balance.Sub(amount)

		// Drop settled members from the working set; the tail first so
		// the head index stays valid
		if creditor.Balance.Abs().Cmp(tolerance) <= 0 {
			working = working[:len(working)-1]
		}
		if debtor.Balance.Abs().Cmp(tolerance) <= 0 {
			working = working[1:]
		}
	}

	return transfers
}
