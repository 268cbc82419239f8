package split

import "github.com/shopspring/decimal"

// WeightedStrategy divides the amount proportionally to per-beneficiary
// weights (the SHARES policy): share = round(amount × w / Σw). The rounding
// residual lands on the last beneficiary in list order, mirroring the
// percentage strategy.
type WeightedStrategy struct{}

// Policy returns the split policy identifier.
func (s *WeightedStrategy) Policy() Policy {
	return PolicyShares
}

// Validate checks the inputs for a weighted split. Every beneficiary needs a
// strictly positive weight.
func (s *WeightedStrategy) Validate(amount int64, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if len(beneficiaryIDs) == 0 {
		return ErrNoBeneficiaries
	}
	for _, id := range beneficiaryIDs {
		weight, ok := inputs[id]
		if !ok {
			return ErrMissingInput
		}
		if !weight.IsPositive() {
			return ErrNonPositiveWeight
		}
	}
	return nil
}

// Shares computes each beneficiary's proportional portion of the amount.
func (s *WeightedStrategy) Shares(amount int64, _ int32, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) ([]Share, error) {
	if err := s.Validate(amount, beneficiaryIDs, inputs); err != nil {
		return nil, err
	}

	totalWeight := decimal.Zero
	for _, id := range beneficiaryIDs {
		totalWeight = totalWeight.Add(inputs[id])
	}

	total := decimal.NewFromInt(amount)
	shares := make([]Share, len(beneficiaryIDs))
	var distributed int64
	for i, id := range beneficiaryIDs {
		portion := total.Mul(inputs[id]).Div(totalWeight).Round(0).IntPart()
		shares[i] = Share{MemberID: id, Amount: portion}
		distributed += portion
	}

	applyResidual(shares, amount-distributed)
	return shares, nil
}
