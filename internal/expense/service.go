package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitify/splitify/internal/currency"
	"github.com/splitify/splitify/internal/expense/split"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidCategory = errors.New("invalid expense category")
	ErrInvalidPolicy   = errors.New("invalid split policy")
	ErrNotCreator      = errors.New("only the creator can delete an expense")
)

// Store is the persistence surface the service needs. *Repository satisfies
// it; tests swap in a fake.
type Store interface {
	Create(ctx context.Context, e *Expense, payments []*Payment, shares []*Share) (*ExpenseWithBreakdown, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	GetPayments(ctx context.Context, expenseID int64) ([]*Payment, error)
	GetShares(ctx context.Context, expenseID int64) ([]*Share, error)
	ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error)
	Delete(ctx context.Context, id int64) error
}

// GroupMembers resolves the member id set of a group. Implemented by the
// group feature's repository.
type GroupMembers interface {
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// ActivityLog receives group activity events. Recording is best-effort and
// never fails expense operations.
type ActivityLog interface {
	ExpenseCreated(ctx context.Context, groupID, userID, expenseID int64, title string)
	ExpenseDeleted(ctx context.Context, groupID, userID int64, title string)
}

// Service handles expense business logic: draft validation, split
// computation and transactional persistence.
type Service struct {
	store    Store
	members  GroupMembers
	factory  *split.Factory
	activity ActivityLog
}

// NewService creates a new expense service with dependencies injected.
func NewService(store Store, members GroupMembers, factory *split.Factory, activity ActivityLog) *Service {
	return &Service{
		store:    store,
		members:  members,
		factory:  factory,
		activity: activity,
	}
}

// Create validates a draft, computes its payments and shares server-side and
// persists the whole breakdown atomically. Client-submitted breakdowns are
// never trusted; the engine recomputes from the raw inputs.
func (s *Service) Create(ctx context.Context, draft *Draft) (*ExpenseWithBreakdown, error) {
	if !draft.SplitPolicy.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPolicy, draft.SplitPolicy)
	}
	if !draft.Category.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, draft.Category)
	}
	if !currency.IsSupported(draft.Currency) {
		return nil, fmt.Errorf("%w: %s", currency.ErrUnsupportedCurrency, draft.Currency)
	}

	memberIDs, err := s.members.MemberIDs(ctx, draft.GroupID)
	if err != nil {
		return nil, err
	}
	members := make(map[int64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}

	if err := draft.Validate(members); err != nil {
		return nil, err
	}

	amountMinor, err := draft.AmountMinor()
	if err != nil {
		return nil, ErrInvalidAmount
	}
	exponent, err := currency.Exponent(draft.Currency)
	if err != nil {
		return nil, err
	}

	payments, shares, err := s.factory.Compute(amountMinor, exponent, draft.PayerIDs, draft.BeneficiaryIDs, draft.SplitPolicy, draft.Inputs)
	if err != nil {
		return nil, err
	}

	// Defense in depth: the draft already passed validation, so any
	// conservation failure here is an engine bug, not a user error.
	if err := CheckConservation(amountMinor, payments, shares); err != nil {
		slog.Error("split engine produced a non-conserving breakdown",
			"group_id", draft.GroupID,
			"policy", draft.SplitPolicy,
			"amount", amountMinor,
			"error", err,
		)
		return nil, err
	}

	e := &Expense{
		GroupID:     draft.GroupID,
		CreatorID:   draft.CreatorID,
		Title:       draft.Title,
		Description: draft.Description,
		Amount:      amountMinor,
		Currency:    draft.Currency,
		Category:    draft.Category,
		SplitPolicy: draft.SplitPolicy,
		ExpenseDate: draft.ExpenseDate,
		ReceiptURL:  draft.ReceiptURL,
	}

	paymentRows := make([]*Payment, len(payments))
	for i, p := range payments {
		paymentRows[i] = &Payment{PayerID: p.MemberID, Amount: p.Amount}
	}
	shareRows := make([]*Share, len(shares))
	for i, sh := range shares {
		shareRows[i] = &Share{BeneficiaryID: sh.MemberID, Amount: sh.Amount}
	}

	result, err := s.store.Create(ctx, e, paymentRows, shareRows)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.ExpenseCreated(ctx, e.GroupID, draft.CreatorID, e.ID, e.Title)
	}

	return result, nil
}

// GetByID retrieves an expense with its payments and shares.
func (s *Service) GetByID(ctx context.Context, id int64) (*ExpenseWithBreakdown, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	payments, err := s.store.GetPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	shares, err := s.store.GetShares(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithBreakdown{Expense: e, Payments: payments, Shares: shares}, nil
}

// ListByGroupID retrieves one page of a group's expenses.
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListByGroupID(ctx, groupID, perPage, offset)
}

// Delete removes an expense. Only the creator may delete.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrExpenseNotFound
	}
	if e.CreatorID != userID {
		return ErrNotCreator
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.ExpenseDeleted(ctx, e.GroupID, userID, e.Title)
	}
	return nil
}
