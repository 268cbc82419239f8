package expense

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitify/splitify/internal/currency"
	"github.com/splitify/splitify/internal/expense/split"
)

// Validation errors. Everything except InvariantError is user-correctable:
// the handler maps these to 400-class responses with the offending field.
var (
	ErrInvalidAmount        = errors.New("amount must be positive and representable in the currency")
	ErrEmptyPayerSet        = errors.New("at least one payer is required")
	ErrEmptyBeneficiarySet  = errors.New("at least one beneficiary is required")
	ErrDuplicatePayer       = errors.New("payers must be distinct")
	ErrDuplicateBeneficiary = errors.New("beneficiaries must be distinct")
	ErrUnknownPayer         = errors.New("payer is not a member of the group")
	ErrUnknownBeneficiary   = errors.New("beneficiary is not a member of the group")
	ErrCreatorNotMember     = errors.New("creator is not a member of the group")
	ErrMissingShareInput    = errors.New("share input required for every beneficiary")
)

// SumMismatchError reports that the entered shares do not add up, carrying
// the totals so the caller can render "X remaining".
type SumMismatchError struct {
	Actual   decimal.Decimal
	Expected decimal.Decimal
	Unit     string // "amount" or "percent"
}

func (e *SumMismatchError) Error() string {
	return fmt.Sprintf("share %s total %s does not match expected %s",
		e.Unit, e.Actual.String(), e.Expected.String())
}

// InvariantError reports a post-engine conservation failure. It indicates a
// bug in the split engine, not a user error, and must surface as a 500-class
// failure.
type InvariantError struct {
	What string
	Got  int64
	Want int64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("split engine invariant violated: %s sum %d, want %d", e.What, e.Got, e.Want)
}

// Draft is the immutable value collected from the client before an expense
// is computed, validated and persisted. The server never trusts a submitted
// payments/shares breakdown; it recomputes from this raw input.
type Draft struct {
	GroupID        int64
	CreatorID      int64
	Title          string
	Description    *string
	Amount         decimal.Decimal
	Currency       string
	Category       Category
	SplitPolicy    split.Policy
	ExpenseDate    time.Time
	ReceiptURL     *string
	PayerIDs       []int64
	BeneficiaryIDs []int64

	// Inputs maps beneficiary id to the policy-specific raw value: absolute
	// amount for UNEQUAL, percentage for PERCENTAGE, weight for SHARES.
	// Unused for EQUAL. Entries for non-beneficiaries are ignored.
	Inputs map[int64]decimal.Decimal
}

// AmountMinor converts the draft amount to minor units of its currency.
func (d *Draft) AmountMinor() (int64, error) {
	return currency.ToMinorUnits(d.Amount, d.Currency)
}

// Validate applies the pre-engine checks in order, failing fast on the first
// violation. members is the id set of the draft's group.
func (d *Draft) Validate(members map[int64]struct{}) error {
	amountMinor, err := d.AmountMinor()
	if err != nil || amountMinor <= 0 {
		return ErrInvalidAmount
	}

	if _, ok := members[d.CreatorID]; !ok {
		return ErrCreatorNotMember
	}

	if err := checkParticipants(d.PayerIDs, members, ErrEmptyPayerSet, ErrDuplicatePayer, ErrUnknownPayer); err != nil {
		return err
	}
	if err := checkParticipants(d.BeneficiaryIDs, members, ErrEmptyBeneficiarySet, ErrDuplicateBeneficiary, ErrUnknownBeneficiary); err != nil {
		return err
	}

	if d.SplitPolicy == split.PolicyEqual {
		return nil
	}

	for _, id := range d.BeneficiaryIDs {
		if _, ok := d.Inputs[id]; !ok {
			return fmt.Errorf("%w: member %d", ErrMissingShareInput, id)
		}
	}

	return d.checkSums(amountMinor)
}

// checkSums verifies the policy-specific totals against the raw input, so
// the user sees the actual mismatch rather than a silently corrected one.
func (d *Draft) checkSums(amountMinor int64) error {
	switch d.SplitPolicy {
	case split.PolicyUnequal:
		// Every entry must be representable in the currency on its own; a
		// total that happens to convert cleanly can still hide sub-minor
		// noise in the individual entries, and the engine takes each entry
		// verbatim.
		var totalMinor int64
		total := decimal.Zero
		for _, id := range d.BeneficiaryIDs {
			entered := d.Inputs[id]
			if entered.IsNegative() {
				return split.ErrNegativeShare
			}
			enteredMinor, err := currency.ToMinorUnits(entered, d.Currency)
			if err != nil {
				return err
			}
			totalMinor += enteredMinor
			total = total.Add(entered)
		}
		if totalMinor != amountMinor {
			return &SumMismatchError{Actual: total, Expected: d.Amount, Unit: "amount"}
		}

	case split.PolicyPercentage:
		total := decimal.Zero
		for _, id := range d.BeneficiaryIDs {
			total = total.Add(d.Inputs[id])
		}
		if total.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
			return &SumMismatchError{Actual: total, Expected: decimal.NewFromInt(100), Unit: "percent"}
		}

	case split.PolicyShares:
		for _, id := range d.BeneficiaryIDs {
			if !d.Inputs[id].IsPositive() {
				return split.ErrNonPositiveWeight
			}
		}
	}

	return nil
}

// checkParticipants enforces non-empty, distinct, all-members for one
// participant list.
func checkParticipants(ids []int64, members map[int64]struct{}, emptyErr, dupErr, unknownErr error) error {
	if len(ids) == 0 {
		return emptyErr
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: member %d", dupErr, id)
		}
		seen[id] = struct{}{}
		if _, ok := members[id]; !ok {
			return fmt.Errorf("%w: member %d", unknownErr, id)
		}
	}
	return nil
}

// CheckConservation is the post-engine defense-in-depth re-check: both sums
// must equal the expense amount exactly in minor units. Any deviation is a
// logic bug and must never be silently accepted.
func CheckConservation(amountMinor int64, payments []split.Payment, shares []split.Share) error {
	if got := split.SumPayments(payments); got != amountMinor {
		return &InvariantError{What: "payments", Got: got, Want: amountMinor}
	}
	if got := split.SumShares(shares); got != amountMinor {
		return &InvariantError{What: "shares", Got: got, Want: amountMinor}
	}
	for _, s := range shares {
		if s.Amount < 0 {
			return &InvariantError{What: "negative share", Got: s.Amount, Want: 0}
		}
	}
	return nil
}
