package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPayments(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		payerIDs []int64
		want     []Payment
		wantErr  error
	}{
		{
			name:     "single payer covers everything",
			amount:   10000,
			payerIDs: []int64{1},
			want:     []Payment{{MemberID: 1, Amount: 10000}},
		},
		{
			name:     "even division",
			amount:   9000,
			payerIDs: []int64{1, 2, 3},
			want: []Payment{
				{MemberID: 1, Amount: 3000},
				{MemberID: 2, Amount: 3000},
				{MemberID: 3, Amount: 3000},
			},
		},
		{
			name:     "remainder goes to first payers in list order",
			amount:   100,
			payerIDs: []int64{7, 8, 9},
			want: []Payment{
				{MemberID: 7, Amount: 34},
				{MemberID: 8, Amount: 33},
				{MemberID: 9, Amount: 33},
			},
		},
		{
			name:     "two extra minor units",
			amount:   11,
			payerIDs: []int64{1, 2, 3},
			want: []Payment{
				{MemberID: 1, Amount: 4},
				{MemberID: 2, Amount: 4},
				{MemberID: 3, Amount: 3},
			},
		},
		{
			name:     "no payers",
			amount:   100,
			payerIDs: nil,
			wantErr:  ErrNoPayers,
		},
		{
			name:     "zero amount",
			amount:   0,
			payerIDs: []int64{1},
			wantErr:  ErrNonPositiveAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Payments(tt.amount, tt.payerIDs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.amount, SumPayments(got), "payments must conserve the amount")
		})
	}
}

func TestEqualShares(t *testing.T) {
	s := &EqualStrategy{}

	shares, err := s.Shares(100, 2, []int64{1, 2, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Share{
		{MemberID: 1, Amount: 34},
		{MemberID: 2, Amount: 33},
		{MemberID: 3, Amount: 33},
	}, shares)
	assert.EqualValues(t, 100, SumShares(shares))
}

func TestUnequalShares(t *testing.T) {
	s := &UnequalStrategy{}

	t.Run("verbatim conversion to minor units", func(t *testing.T) {
		inputs := map[int64]decimal.Decimal{
			1: dec("40.50"),
			2: dec("59.50"),
		}
		shares, err := s.Shares(10000, 2, []int64{1, 2}, inputs)
		require.NoError(t, err)
		assert.Equal(t, []Share{
			{MemberID: 1, Amount: 4050},
			{MemberID: 2, Amount: 5950},
		}, shares)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := s.Shares(10000, 2, []int64{1, 2}, map[int64]decimal.Decimal{1: dec("100")})
		assert.ErrorIs(t, err, ErrMissingInput)
	})

	t.Run("negative input", func(t *testing.T) {
		_, err := s.Shares(10000, 2, []int64{1}, map[int64]decimal.Decimal{1: dec("-1")})
		assert.ErrorIs(t, err, ErrNegativeShare)
	})
}

func TestPercentageShares(t *testing.T) {
	s := &PercentageStrategy{}

	t.Run("clean percentages", func(t *testing.T) {
		inputs := map[int64]decimal.Decimal{
			1: dec("50"),
			2: dec("30"),
			3: dec("20"),
		}
		shares, err := s.Shares(90, 2, []int64{1, 2, 3}, inputs)
		require.NoError(t, err)
		assert.Equal(t, []Share{
			{MemberID: 1, Amount: 45},
			{MemberID: 2, Amount: 27},
			{MemberID: 3, Amount: 18},
		}, shares)
		assert.EqualValues(t, 90, SumShares(shares))
	})

	t.Run("rounding residual lands on last beneficiary", func(t *testing.T) {
		// 3 × 33.33% of 100 leaves one minor unit unaccounted for.
		inputs := map[int64]decimal.Decimal{
			1: dec("33.33"),
			2: dec("33.33"),
			3: dec("33.34"),
		}
		shares, err := s.Shares(100, 2, []int64{1, 2, 3}, inputs)
		require.NoError(t, err)
		assert.EqualValues(t, 100, SumShares(shares))
		assert.EqualValues(t, 33, shares[0].Amount)
		assert.EqualValues(t, 33, shares[1].Amount)
		assert.EqualValues(t, 34, shares[2].Amount)
	})

	t.Run("percentage out of range", func(t *testing.T) {
		_, err := s.Shares(100, 2, []int64{1}, map[int64]decimal.Decimal{1: dec("101")})
		assert.ErrorIs(t, err, ErrNegativeShare)
	})

	t.Run("negative residual never drives a share negative", func(t *testing.T) {
		// One minor unit at 50/50/0: half-up rounding gives 1+1+0, so the
		// residual is -1 and the zero-percent beneficiary sits last.
		inputs := map[int64]decimal.Decimal{
			1: dec("50"),
			2: dec("50"),
			3: dec("0"),
		}
		shares, err := s.Shares(1, 2, []int64{1, 2, 3}, inputs)
		require.NoError(t, err)
		assert.EqualValues(t, 1, SumShares(shares))
		for _, share := range shares {
			assert.GreaterOrEqual(t, share.Amount, int64(0))
		}
		assert.Equal(t, []Share{
			{MemberID: 1, Amount: 1},
			{MemberID: 2, Amount: 0},
			{MemberID: 3, Amount: 0},
		}, shares)
	})
}

func TestWeightedShares(t *testing.T) {
	s := &WeightedStrategy{}

	t.Run("one to three weights", func(t *testing.T) {
		inputs := map[int64]decimal.Decimal{
			1: dec("1"),
			2: dec("3"),
		}
		shares, err := s.Shares(100, 2, []int64{1, 2}, inputs)
		require.NoError(t, err)
		assert.Equal(t, []Share{
			{MemberID: 1, Amount: 25},
			{MemberID: 2, Amount: 75},
		}, shares)
	})

	t.Run("residual to last with indivisible weights", func(t *testing.T) {
		inputs := map[int64]decimal.Decimal{
			1: dec("1"),
			2: dec("1"),
			3: dec("1"),
		}
		shares, err := s.Shares(100, 2, []int64{1, 2, 3}, inputs)
		require.NoError(t, err)
		assert.EqualValues(t, 100, SumShares(shares))
	})

	t.Run("zero weight rejected", func(t *testing.T) {
		_, err := s.Shares(100, 2, []int64{1, 2}, map[int64]decimal.Decimal{1: dec("0"), 2: dec("1")})
		assert.ErrorIs(t, err, ErrNonPositiveWeight)
	})

	t.Run("negative residual never drives a share negative", func(t *testing.T) {
		// Two minor units over four equal weights: half-up rounding gives
		// 1 each, so the residual is -2, more than the last share holds.
		inputs := map[int64]decimal.Decimal{
			1: dec("1"),
			2: dec("1"),
			3: dec("1"),
			4: dec("1"),
		}
		shares, err := s.Shares(2, 2, []int64{1, 2, 3, 4}, inputs)
		require.NoError(t, err)
		assert.EqualValues(t, 2, SumShares(shares))
		for _, share := range shares {
			assert.GreaterOrEqual(t, share.Amount, int64(0))
		}
	})
}

func TestComputeConservation(t *testing.T) {
	factory := NewFactory()

	// Awkward amounts and participant counts for every policy; the sums must
	// come out exact regardless.
	cases := []struct {
		name           string
		amount         int64
		payerIDs       []int64
		beneficiaryIDs []int64
		policy         Policy
		inputs         map[int64]decimal.Decimal
	}{
		{"equal odd amount", 100, []int64{1}, []int64{1, 2, 3}, PolicyEqual, nil},
		{"equal prime amount", 9973, []int64{1, 2}, []int64{1, 2, 3, 4, 5, 6, 7}, PolicyEqual, nil},
		{"percentage thirds", 1000, []int64{1, 2, 3}, []int64{1, 2, 3}, PolicyPercentage,
			map[int64]decimal.Decimal{1: dec("33.33"), 2: dec("33.33"), 3: dec("33.34")}},
		{"weights", 1, []int64{1}, []int64{1, 2, 3}, PolicyShares,
			map[int64]decimal.Decimal{1: dec("2"), 2: dec("5"), 3: dec("11")}},
		{"unequal exact", 10000, []int64{4, 5}, []int64{1, 2}, PolicyUnequal,
			map[int64]decimal.Decimal{1: dec("33.57"), 2: dec("66.43")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payments, shares, err := factory.Compute(tc.amount, 2, tc.payerIDs, tc.beneficiaryIDs, tc.policy, tc.inputs)
			require.NoError(t, err)
			assert.Equal(t, tc.amount, SumPayments(payments), "payment conservation")
			assert.Equal(t, tc.amount, SumShares(shares), "share conservation")
			assert.Len(t, payments, len(tc.payerIDs))
			assert.Len(t, shares, len(tc.beneficiaryIDs))
		})
	}
}

func TestComputeDeterminism(t *testing.T) {
	factory := NewFactory()
	inputs := map[int64]decimal.Decimal{1: dec("33.33"), 2: dec("33.33"), 3: dec("33.34")}

	first, firstShares, err := factory.Compute(100, 2, []int64{1, 2, 3}, []int64{1, 2, 3}, PolicyPercentage, inputs)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		payments, shares, err := factory.Compute(100, 2, []int64{1, 2, 3}, []int64{1, 2, 3}, PolicyPercentage, inputs)
		require.NoError(t, err)
		assert.Equal(t, first, payments)
		assert.Equal(t, firstShares, shares)
	}
}

func TestFactoryUnknownPolicy(t *testing.T) {
	_, err := NewFactory().Create(Policy("SPLIT_BY_VIBES"))
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}
