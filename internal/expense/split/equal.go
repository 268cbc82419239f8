package split

import "github.com/shopspring/decimal"

// EqualStrategy divides the amount evenly among all beneficiaries.
// It uses the same remainder rule as payments: floor portions, with the
// leftover minor units going to the first beneficiaries in list order.
type EqualStrategy struct{}

// Policy returns the split policy identifier.
func (s *EqualStrategy) Policy() Policy {
	return PolicyEqual
}

// Validate checks the inputs for an equal split. Per-member inputs are
// ignored for this policy.
func (s *EqualStrategy) Validate(amount int64, beneficiaryIDs []int64, _ map[int64]decimal.Decimal) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if len(beneficiaryIDs) == 0 {
		return ErrNoBeneficiaries
	}
	return nil
}

// Shares divides amount evenly among the beneficiaries.
func (s *EqualStrategy) Shares(amount int64, _ int32, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) ([]Share, error) {
	if err := s.Validate(amount, beneficiaryIDs, inputs); err != nil {
		return nil, err
	}

	portions := distributeEvenly(amount, beneficiaryIDs)
	shares := make([]Share, len(beneficiaryIDs))
	for i, id := range beneficiaryIDs {
		shares[i] = Share{MemberID: id, Amount: portions[i]}
	}
	return shares, nil
}
