package split

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// PercentageStrategy divides the amount according to each beneficiary's
// percentage of the total. Each share is rounded to the nearest minor unit;
// the accumulated rounding residual lands on the last beneficiaries in list
// order, never pushing a share negative, so the shares always sum to the
// amount exactly.
type PercentageStrategy struct{}

// Policy returns the split policy identifier.
func (s *PercentageStrategy) Policy() Policy {
	return PolicyPercentage
}

// Validate checks the inputs for a percentage split. The 100% sum check is
// performed by draft validation against the raw input; here we only require
// presence and range.
func (s *PercentageStrategy) Validate(amount int64, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if len(beneficiaryIDs) == 0 {
		return ErrNoBeneficiaries
	}
	for _, id := range beneficiaryIDs {
		pct, ok := inputs[id]
		if !ok {
			return ErrMissingInput
		}
		if pct.IsNegative() || pct.GreaterThan(oneHundred) {
			return ErrNegativeShare
		}
	}
	return nil
}

// Shares computes round(amount × pct / 100) per beneficiary and applies the
// residual to the last one.
func (s *PercentageStrategy) Shares(amount int64, _ int32, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) ([]Share, error) {
	if err := s.Validate(amount, beneficiaryIDs, inputs); err != nil {
		return nil, err
	}

	total := decimal.NewFromInt(amount)
	shares := make([]Share, len(beneficiaryIDs))
	var distributed int64
	for i, id := range beneficiaryIDs {
		portion := total.Mul(inputs[id]).Div(oneHundred).Round(0).IntPart()
		shares[i] = Share{MemberID: id, Amount: portion}
		distributed += portion
	}

	// Rounding residual goes to the last beneficiaries that can absorb it.
	applyResidual(shares, amount-distributed)
	return shares, nil
}
