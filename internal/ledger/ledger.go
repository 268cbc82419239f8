// Package ledger derives net balances and suggested settlements from a
// group's expense history. Balances are recomputed from scratch on every
// read; nothing here is ever persisted, so the view cannot go stale.
package ledger

import (
	"sort"

	"github.com/splitify/splitify/internal/expense"
)

// ComputeBalances folds a group's expense history into net minor-unit
// balances per member: payments add, shares subtract. Positive means the
// member is owed money, negative means they owe. Every known member appears
// in the result, members without expenses at zero. Addition commutes, so the
// order of the expense list does not affect the result.
func ComputeBalances(memberIDs []int64, history []*expense.ExpenseWithBreakdown) map[int64]int64 {
	balances := make(map[int64]int64, len(memberIDs))
	for _, id := range memberIDs {
		balances[id] = 0
	}

	for _, item := range history {
		for _, p := range item.Payments {
			balances[p.PayerID] += p.Amount
		}
		for _, s := range item.Shares {
			balances[s.BeneficiaryID] -= s.Amount
		}
	}
	return balances
}

// Transfer is one suggested repayment: From pays To.
type Transfer struct {
	FromID int64
	ToID   int64
	Amount int64
}

// SuggestSettlements pairs the largest debtor with the largest creditor
// until everyone nets to zero. The pairing is deterministic: candidates are
// ordered by amount, ties broken by member id. The suggested transfers move
// exactly the total positive balance and never invent a transfer not implied
// by the balances.
func SuggestSettlements(balances map[int64]int64) []Transfer {
	type position struct {
		id     int64
		amount int64
	}

	var creditors, debtors []position
	for id, bal := range balances {
		switch {
		case bal > 0:
			creditors = append(creditors, position{id: id, amount: bal})
		case bal < 0:
			debtors = append(debtors, position{id: id, amount: -bal})
		}
	}

	byAmountDesc := func(ps []position) func(i, j int) bool {
		return func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].id < ps[j].id
		}
	}
	sort.Slice(creditors, byAmountDesc(creditors))
	sort.Slice(debtors, byAmountDesc(debtors))

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		transfers = append(transfers, Transfer{
			FromID: debtors[i].id,
			ToID:   creditors[j].id,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}
	return transfers
}
