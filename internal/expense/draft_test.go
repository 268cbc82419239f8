package expense

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitify/splitify/internal/currency"
	"github.com/splitify/splitify/internal/expense/split"
)

func members(ids ...int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func baseDraft() *Draft {
	return &Draft{
		GroupID:        1,
		CreatorID:      1,
		Title:          "Dinner",
		Amount:         decimal.NewFromInt(100),
		Currency:       "USD",
		Category:       CategoryFood,
		SplitPolicy:    split.PolicyEqual,
		ExpenseDate:    time.Now(),
		PayerIDs:       []int64{1},
		BeneficiaryIDs: []int64{1, 2, 3},
	}
}

func TestDraftValidate_Equal(t *testing.T) {
	d := baseDraft()
	require.NoError(t, d.Validate(members(1, 2, 3)))
}

func TestDraftValidate_Amount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"zero", decimal.Zero},
		{"negative", decimal.NewFromInt(-5)},
		{"sub-minor precision", decimal.RequireFromString("10.001")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := baseDraft()
			d.Amount = tt.amount
			assert.ErrorIs(t, d.Validate(members(1, 2, 3)), ErrInvalidAmount)
		})
	}
}

func TestDraftValidate_Participants(t *testing.T) {
	tests := []struct {
		name          string
		payers        []int64
		beneficiaries []int64
		want          error
	}{
		{"no payers", nil, []int64{1, 2}, ErrEmptyPayerSet},
		{"no beneficiaries", []int64{1}, nil, ErrEmptyBeneficiarySet},
		{"duplicate payer", []int64{1, 1}, []int64{1, 2}, ErrDuplicatePayer},
		{"duplicate beneficiary", []int64{1}, []int64{2, 2}, ErrDuplicateBeneficiary},
		{"payer outside group", []int64{9}, []int64{1, 2}, ErrUnknownPayer},
		{"beneficiary outside group", []int64{1}, []int64{1, 9}, ErrUnknownBeneficiary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := baseDraft()
			d.PayerIDs = tt.payers
			d.BeneficiaryIDs = tt.beneficiaries
			assert.ErrorIs(t, d.Validate(members(1, 2, 3)), tt.want)
		})
	}
}

func TestDraftValidate_CreatorMustBeMember(t *testing.T) {
	// A non-member cannot create an expense in the group even when all the
	// named payers and beneficiaries are members.
	d := baseDraft()
	d.CreatorID = 9
	d.PayerIDs = []int64{1}
	d.BeneficiaryIDs = []int64{1, 2}
	assert.ErrorIs(t, d.Validate(members(1, 2, 3)), ErrCreatorNotMember)
}

func TestDraftValidate_PayerOrderPrecedesBeneficiaries(t *testing.T) {
	// Both participant lists are empty; the payer check fires first.
	d := baseDraft()
	d.PayerIDs = nil
	d.BeneficiaryIDs = nil
	assert.ErrorIs(t, d.Validate(members(1, 2, 3)), ErrEmptyPayerSet)
}

func TestDraftValidate_MissingShareInput(t *testing.T) {
	d := baseDraft()
	d.SplitPolicy = split.PolicyUnequal
	d.BeneficiaryIDs = []int64{1, 2}
	d.Inputs = map[int64]decimal.Decimal{
		1: decimal.NewFromInt(100),
	}
	assert.ErrorIs(t, d.Validate(members(1, 2, 3)), ErrMissingShareInput)
}

func TestDraftValidate_UnequalSum(t *testing.T) {
	d := baseDraft()
	d.SplitPolicy = split.PolicyUnequal
	d.BeneficiaryIDs = []int64{1, 2}

	t.Run("mismatch carries totals", func(t *testing.T) {
		d.Inputs = map[int64]decimal.Decimal{
			1: decimal.NewFromInt(40),
			2: decimal.NewFromInt(70),
		}
		err := d.Validate(members(1, 2, 3))

		var mismatch *SumMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.True(t, mismatch.Actual.Equal(decimal.NewFromInt(110)))
		assert.True(t, mismatch.Expected.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "amount", mismatch.Unit)
	})

	t.Run("exact sum passes", func(t *testing.T) {
		d.Inputs = map[int64]decimal.Decimal{
			1: decimal.RequireFromString("33.33"),
			2: decimal.RequireFromString("66.67"),
		}
		assert.NoError(t, d.Validate(members(1, 2, 3)))
	})

	t.Run("negative input rejected", func(t *testing.T) {
		d.Inputs = map[int64]decimal.Decimal{
			1: decimal.NewFromInt(-10),
			2: decimal.NewFromInt(110),
		}
		assert.ErrorIs(t, d.Validate(members(1, 2, 3)), split.ErrNegativeShare)
	})

	t.Run("sub-minor entries rejected even when the total converts", func(t *testing.T) {
		// 33.335 + 66.665 = 100.000 is representable in cents, but the
		// individual entries are not; the engine would truncate each one
		// and lose a minor unit.
		d.Inputs = map[int64]decimal.Decimal{
			1: decimal.RequireFromString("33.335"),
			2: decimal.RequireFromString("66.665"),
		}
		assert.ErrorIs(t, d.Validate(members(1, 2, 3)), currency.ErrTooPrecise)
	})
}

func TestDraftValidate_PercentageSum(t *testing.T) {
	d := baseDraft()
	d.SplitPolicy = split.PolicyPercentage
	d.BeneficiaryIDs = []int64{1, 2, 3}

	t.Run("within tolerance", func(t *testing.T) {
		d.Inputs = map[int64]decimal.Decimal{
			1: decimal.RequireFromString("33.33"),
			2: decimal.RequireFromString("33.33"),
			3: decimal.RequireFromString("33.33"),
		}
		// 99.99 is within the 0.01 tolerance
		assert.NoError(t, d.Validate(members(1, 2, 3)))
	})

	t.Run("outside tolerance", func(t *testing.T) {
		d.Inputs = map[int64]decimal.Decimal{
			1: decimal.NewFromInt(50),
			2: decimal.NewFromInt(30),
			3: decimal.NewFromInt(30),
		}
		err := d.Validate(members(1, 2, 3))

		var mismatch *SumMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.True(t, mismatch.Actual.Equal(decimal.NewFromInt(110)))
		assert.Equal(t, "percent", mismatch.Unit)
	})
}

func TestDraftValidate_SharesWeights(t *testing.T) {
	d := baseDraft()
	d.SplitPolicy = split.PolicyShares
	d.BeneficiaryIDs = []int64{1, 2}
	d.Inputs = map[int64]decimal.Decimal{
		1: decimal.NewFromInt(1),
		2: decimal.Zero,
	}
	assert.ErrorIs(t, d.Validate(members(1, 2, 3)), split.ErrNonPositiveWeight)
}

func TestCheckConservation(t *testing.T) {
	payments := []split.Payment{{MemberID: 1, Amount: 10000}}
	shares := []split.Share{
		{MemberID: 1, Amount: 3334},
		{MemberID: 2, Amount: 3333},
		{MemberID: 3, Amount: 3333},
	}

	t.Run("exact sums pass", func(t *testing.T) {
		assert.NoError(t, CheckConservation(10000, payments, shares))
	})

	t.Run("payment shortfall", func(t *testing.T) {
		err := CheckConservation(10001, payments, shares)
		var invariant *InvariantError
		require.ErrorAs(t, err, &invariant)
		assert.Equal(t, "payments", invariant.What)
		assert.Equal(t, int64(10000), invariant.Got)
		assert.Equal(t, int64(10001), invariant.Want)
	})

	t.Run("share shortfall", func(t *testing.T) {
		short := []split.Share{{MemberID: 1, Amount: 9999}}
		err := CheckConservation(10000, []split.Payment{{MemberID: 1, Amount: 10000}}, short)
		var invariant *InvariantError
		require.ErrorAs(t, err, &invariant)
		assert.Equal(t, "shares", invariant.What)
	})

	t.Run("negative share", func(t *testing.T) {
		bad := []split.Share{
			{MemberID: 1, Amount: 10001},
			{MemberID: 2, Amount: -1},
		}
		err := CheckConservation(10000, []split.Payment{{MemberID: 1, Amount: 10000}}, bad)
		var invariant *InvariantError
		require.ErrorAs(t, err, &invariant)
	})
}
