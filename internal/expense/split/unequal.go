package split

import "github.com/shopspring/decimal"

// UnequalStrategy takes the amount each beneficiary owes verbatim from the
// per-member inputs. The engine never redistributes: the draft validation
// layer checks that the entered amounts sum to the expense amount, so the
// user sees the actual mismatch instead of a silently corrected one.
type UnequalStrategy struct{}

// Policy returns the split policy identifier.
func (s *UnequalStrategy) Policy() Policy {
	return PolicyUnequal
}

// Validate checks the inputs for an unequal split.
func (s *UnequalStrategy) Validate(amount int64, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if len(beneficiaryIDs) == 0 {
		return ErrNoBeneficiaries
	}
	for _, id := range beneficiaryIDs {
		entered, ok := inputs[id]
		if !ok {
			return ErrMissingInput
		}
		if entered.IsNegative() {
			return ErrNegativeShare
		}
	}
	return nil
}

// Shares converts the entered amounts to minor units, one share per
// beneficiary in list order.
func (s *UnequalStrategy) Shares(amount int64, exponent int32, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) ([]Share, error) {
	if err := s.Validate(amount, beneficiaryIDs, inputs); err != nil {
		return nil, err
	}

	shares := make([]Share, len(beneficiaryIDs))
	for i, id := range beneficiaryIDs {
		shares[i] = Share{
			MemberID: id,
			Amount:   inputs[id].Shift(exponent).IntPart(),
		}
	}
	return shares, nil
}
