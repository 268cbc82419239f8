package ledger

import (
	"context"
	"errors"

	"github.com/splitify/splitify/internal/expense"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
)

// MemberDirectory resolves a group's members. Implemented by the group
// feature's repository.
type MemberDirectory interface {
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
	MemberNames(ctx context.Context, groupID int64) (map[int64]string, error)
}

// ExpenseHistory fetches a group's full expense history with breakdowns.
// Implemented by the expense feature's repository.
type ExpenseHistory interface {
	ListHistoryByGroupID(ctx context.Context, groupID int64) ([]*expense.ExpenseWithBreakdown, error)
}

// Service derives balance views for a group on demand.
type Service struct {
	members  MemberDirectory
	expenses ExpenseHistory
}

// NewService creates a new ledger service.
func NewService(members MemberDirectory, expenses ExpenseHistory) *Service {
	return &Service{members: members, expenses: expenses}
}

// MemberBalance is one member's net position in a group, in minor units.
type MemberBalance struct {
	UserID   int64
	Username string
	Amount   int64
}

// GroupBalances recomputes every member's net balance from the group's full
// expense history.
func (s *Service) GroupBalances(ctx context.Context, groupID int64) ([]MemberBalance, error) {
	memberIDs, err := s.members.MemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(memberIDs) == 0 {
		return nil, ErrGroupNotFound
	}
	names, err := s.members.MemberNames(ctx, groupID)
	if err != nil {
		return nil, err
	}

	history, err := s.expenses.ListHistoryByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances := ComputeBalances(memberIDs, history)
	result := make([]MemberBalance, 0, len(memberIDs))
	for _, id := range memberIDs {
		result = append(result, MemberBalance{
			UserID:   id,
			Username: names[id],
			Amount:   balances[id],
		})
	}
	return result, nil
}

// GroupSettlements derives the suggested repayments that would settle the
// group with the fewest transfers the greedy pairing finds.
func (s *Service) GroupSettlements(ctx context.Context, groupID int64) ([]Transfer, map[int64]string, error) {
	memberIDs, err := s.members.MemberIDs(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if len(memberIDs) == 0 {
		return nil, nil, ErrGroupNotFound
	}
	names, err := s.members.MemberNames(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.expenses.ListHistoryByGroupID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	return SuggestSettlements(ComputeBalances(memberIDs, history)), names, nil
}
