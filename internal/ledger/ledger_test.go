package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitify/splitify/internal/expense"
)

// breakdown builds an expense history entry from payer and share amounts.
func breakdown(payments map[int64]int64, shares map[int64]int64) *expense.ExpenseWithBreakdown {
	b := &expense.ExpenseWithBreakdown{Expense: &expense.Expense{}}
	for id, amount := range payments {
		b.Payments = append(b.Payments, &expense.Payment{PayerID: id, Amount: amount})
	}
	for id, amount := range shares {
		b.Shares = append(b.Shares, &expense.Share{BeneficiaryID: id, Amount: amount})
	}
	return b
}

func TestComputeBalances(t *testing.T) {
	t.Run("single equal expense paid by one member", func(t *testing.T) {
		// A pays 100, split 34/33/33 across A, B, C.
		history := []*expense.ExpenseWithBreakdown{
			breakdown(map[int64]int64{1: 100}, map[int64]int64{1: 34, 2: 33, 3: 33}),
		}
		balances := ComputeBalances([]int64{1, 2, 3}, history)

		assert.Equal(t, map[int64]int64{1: 66, 2: -33, 3: -33}, balances)
	})

	t.Run("members without expenses stay at zero", func(t *testing.T) {
		balances := ComputeBalances([]int64{1, 2, 3}, nil)
		assert.Equal(t, map[int64]int64{1: 0, 2: 0, 3: 0}, balances)
	})

	t.Run("balances always sum to zero", func(t *testing.T) {
		// Money is conserved within the group for any conserving history.
		history := []*expense.ExpenseWithBreakdown{
			breakdown(map[int64]int64{1: 100}, map[int64]int64{1: 34, 2: 33, 3: 33}),
			breakdown(map[int64]int64{2: 5000, 3: 5000}, map[int64]int64{1: 2500, 2: 2500, 3: 5000}),
			breakdown(map[int64]int64{3: 1}, map[int64]int64{2: 1}),
		}
		balances := ComputeBalances([]int64{1, 2, 3}, history)

		var sum int64
		for _, b := range balances {
			sum += b
		}
		assert.Zero(t, sum)
	})

	t.Run("idempotent and order independent", func(t *testing.T) {
		history := []*expense.ExpenseWithBreakdown{
			breakdown(map[int64]int64{1: 300}, map[int64]int64{1: 100, 2: 100, 3: 100}),
			breakdown(map[int64]int64{2: 90}, map[int64]int64{1: 45, 2: 27, 3: 18}),
			breakdown(map[int64]int64{3: 40}, map[int64]int64{1: 40}),
		}
		members := []int64{1, 2, 3}

		want := ComputeBalances(members, history)
		assert.Equal(t, want, ComputeBalances(members, history), "recomputation must be idempotent")

		rng := rand.New(rand.NewSource(1))
		for trial := 0; trial < 10; trial++ {
			shuffled := make([]*expense.ExpenseWithBreakdown, len(history))
			copy(shuffled, history)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			assert.Equal(t, want, ComputeBalances(members, shuffled), "expense order must not matter")
		}
	})
}

func TestSuggestSettlements(t *testing.T) {
	t.Run("two transfers settle three members", func(t *testing.T) {
		transfers := SuggestSettlements(map[int64]int64{1: 66, 2: -33, 3: -33})

		require.Len(t, transfers, 2)
		// Equal debts tie-break on member id.
		assert.Equal(t, Transfer{FromID: 2, ToID: 1, Amount: 33}, transfers[0])
		assert.Equal(t, Transfer{FromID: 3, ToID: 1, Amount: 33}, transfers[1])
	})

	t.Run("settled group needs no transfers", func(t *testing.T) {
		assert.Empty(t, SuggestSettlements(map[int64]int64{1: 0, 2: 0}))
	})

	t.Run("transfers move exactly the outstanding credit", func(t *testing.T) {
		balances := map[int64]int64{1: 500, 2: 250, 3: -600, 4: -150, 5: 0}

		transfers := SuggestSettlements(balances)

		var moved int64
		for _, tr := range transfers {
			moved += tr.Amount
			assert.Positive(t, tr.Amount)
			assert.Negative(t, balances[tr.FromID], "transfers only come from debtors")
			assert.Positive(t, balances[tr.ToID], "transfers only go to creditors")
		}
		assert.EqualValues(t, 750, moved)
	})

	t.Run("deterministic for a given balance set", func(t *testing.T) {
		balances := map[int64]int64{1: 10, 2: 10, 3: -10, 4: -10}
		first := SuggestSettlements(balances)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, SuggestSettlements(map[int64]int64{1: 10, 2: 10, 3: -10, 4: -10}))
		}
	})

	t.Run("applying the transfers settles everyone", func(t *testing.T) {
		balances := map[int64]int64{1: 123, 2: -45, 3: -78, 4: 17, 5: -17}

		remaining := make(map[int64]int64, len(balances))
		for id, b := range balances {
			remaining[id] = b
		}
		for _, tr := range SuggestSettlements(balances) {
			remaining[tr.FromID] += tr.Amount
			remaining[tr.ToID] -= tr.Amount
		}
		for id, b := range remaining {
			assert.Zerof(t, b, "member %d should be settled", id)
		}
	})
}
