package activity

import (
	"context"
	"fmt"
	"log/slog"
)

// Service handles the group activity feed. Recording is best-effort: a
// failed insert is logged and swallowed so it never fails the operation
// that triggered it.
type Service struct {
	repo *Repository
}

// NewService creates a new activity service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ListByGroupID retrieves one page of a group's activity feed.
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Activity, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

func (s *Service) record(ctx context.Context, groupID, userID int64, typ Type, description string, entityID *int64) {
	if _, err := s.repo.Create(ctx, groupID, userID, typ, description, entityID); err != nil {
		slog.Warn("failed to record activity",
			"group_id", groupID,
			"user_id", userID,
			"type", typ,
			"error", err,
		)
	}
}

// GroupCreated records that a user created the group.
func (s *Service) GroupCreated(ctx context.Context, groupID, userID int64, name string) {
	s.record(ctx, groupID, userID, TypeGroupCreated, fmt.Sprintf("Created group: %s", name), nil)
}

// MemberAdded records that an admin added a user to the group.
func (s *Service) MemberAdded(ctx context.Context, groupID, actorID, memberID int64) {
	s.record(ctx, groupID, actorID, TypeMemberAdded, fmt.Sprintf("Added member %d", memberID), &memberID)
}

// MemberJoined records that a user joined via an invite token.
func (s *Service) MemberJoined(ctx context.Context, groupID, userID int64) {
	s.record(ctx, groupID, userID, TypeMemberJoined, "Joined the group", nil)
}

// ExpenseCreated records a new expense on the feed.
func (s *Service) ExpenseCreated(ctx context.Context, groupID, userID, expenseID int64, title string) {
	s.record(ctx, groupID, userID, TypeExpenseCreated, fmt.Sprintf("Created expense: %s", title), &expenseID)
}

// ExpenseDeleted records that an expense was removed.
func (s *Service) ExpenseDeleted(ctx context.Context, groupID, userID int64, title string) {
	s.record(ctx, groupID, userID, TypeExpenseDeleted, fmt.Sprintf("Deleted expense: %s", title), nil)
}
