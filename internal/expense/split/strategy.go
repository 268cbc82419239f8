// Package split computes how an expense amount is divided into payments and
// shares. All arithmetic happens in integer minor units so the totals always
// reconcile exactly; decimal inputs are only used to express percentages,
// weights and user-entered amounts.
package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy identifies how an expense's shares are computed.
type Policy string

const (
	PolicyEqual      Policy = "EQUAL"
	PolicyUnequal    Policy = "UNEQUAL"
	PolicyPercentage Policy = "PERCENTAGE"
	PolicyShares     Policy = "SHARES"
)

// Valid reports whether the policy is one of the known split policies.
func (p Policy) Valid() bool {
	switch p {
	case PolicyEqual, PolicyUnequal, PolicyPercentage, PolicyShares:
		return true
	}
	return false
}

// Payment records how much one payer put in, in minor units.
type Payment struct {
	MemberID int64
	Amount   int64
}

// Share records how much one beneficiary owes, in minor units.
type Share struct {
	MemberID int64
	Amount   int64
}

var (
	ErrUnknownPolicy     = errors.New("unknown split policy")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNoPayers          = errors.New("at least one payer is required")
	ErrNoBeneficiaries   = errors.New("at least one beneficiary is required")
	ErrMissingInput      = errors.New("share input required for all beneficiaries")
	ErrNonPositiveWeight = errors.New("share weights must be positive")
	ErrNegativeShare     = errors.New("share amounts cannot be negative")
)

// Strategy computes the share breakdown for one split policy.
//
// Shares must return amounts that sum to exactly amount in minor units;
// every strategy carries its own deterministic remainder rule to guarantee
// that. exponent is the currency's minor-unit exponent, needed by policies
// whose inputs are absolute amounts.
type Strategy interface {
	Policy() Policy
	Validate(amount int64, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) error
	Shares(amount int64, exponent int32, beneficiaryIDs []int64, inputs map[int64]decimal.Decimal) ([]Share, error)
}

// Factory creates split strategies based on the requested policy.
type Factory struct{}

// NewFactory creates a new strategy factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the policy.
func (f *Factory) Create(policy Policy) (Strategy, error) {
	switch policy {
	case PolicyEqual:
		return &EqualStrategy{}, nil
	case PolicyUnequal:
		return &UnequalStrategy{}, nil
	case PolicyPercentage:
		return &PercentageStrategy{}, nil
	case PolicyShares:
		return &WeightedStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
}

// applyResidual settles the rounding residual on the last shares in reverse
// list order. A negative residual never drives a share below zero: whatever
// deficit one share cannot absorb moves to the share before it, so the
// amounts still sum to the expense total and stay non-negative.
func applyResidual(shares []Share, residual int64) {
	i := len(shares) - 1
	shares[i].Amount += residual
	for ; i > 0 && shares[i].Amount < 0; i-- {
		shares[i-1].Amount += shares[i].Amount
		shares[i].Amount = 0
	}
}

// distributeEvenly divides amount into len(memberIDs) portions in minor
// units. Each member gets the floor portion; the remainder is handed out one
// minor unit at a time to the first members in list order, so the portions
// always sum to amount and the result is stable for a given input order.
func distributeEvenly(amount int64, memberIDs []int64) []int64 {
	n := int64(len(memberIDs))
	base := amount / n
	remainder := amount - base*n

	portions := make([]int64, len(memberIDs))
	for i := range portions {
		portions[i] = base
		if int64(i) < remainder {
			portions[i]++
		}
	}
	return portions
}
