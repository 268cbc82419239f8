package split

import "github.com/shopspring/decimal"

// Payments divides the amount evenly among the payers: every payer covers an
// equal fraction regardless of split policy. The remainder rule is the same
// as for equal shares, so Σ payments == amount exactly.
func Payments(amount int64, payerIDs []int64) ([]Payment, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if len(payerIDs) == 0 {
		return nil, ErrNoPayers
	}

	portions := distributeEvenly(amount, payerIDs)
	payments := make([]Payment, len(payerIDs))
	for i, id := range payerIDs {
		payments[i] = Payment{MemberID: id, Amount: portions[i]}
	}
	return payments, nil
}

// Compute runs the full split: equal payments across payers plus
// policy-specific shares across beneficiaries. It is a pure function of its
// arguments, including list order, and guarantees Σ payments == Σ shares ==
// amount in minor units for every policy.
func (f *Factory) Compute(amount int64, exponent int32, payerIDs, beneficiaryIDs []int64, policy Policy, inputs map[int64]decimal.Decimal) ([]Payment, []Share, error) {
	strategy, err := f.Create(policy)
	if err != nil {
		return nil, nil, err
	}

	payments, err := Payments(amount, payerIDs)
	if err != nil {
		return nil, nil, err
	}

	shares, err := strategy.Shares(amount, exponent, beneficiaryIDs, inputs)
	if err != nil {
		return nil, nil, err
	}

	return payments, shares, nil
}

// SumPayments returns the total of all payment amounts in minor units.
func SumPayments(payments []Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// SumShares returns the total of all share amounts in minor units.
func SumShares(shares []Share) int64 {
	var total int64
	for _, s := range shares {
		total += s.Amount
	}
	return total
}
