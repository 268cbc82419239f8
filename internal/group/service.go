package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrAlreadyMember    = errors.New("user is already a member of this group")
	ErrNotGroupAdmin    = errors.New("only group admins can perform this action")
	ErrNotGroupMember   = errors.New("user is not a member of this group")
	ErrInviteNotFound   = errors.New("invite not found")
	ErrCannotRemoveSelf = errors.New("admins cannot remove themselves from the group")
)

// Store defines the persistence operations the group service depends on.
type Store interface {
	Create(ctx context.Context, createdBy int64, req *CreateGroupRequest) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error)
	Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, groupID, userID int64, role MemberRole, status MemberStatus) (*GroupMember, error)
	GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error)
	GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID int64) error
	CreateInvite(ctx context.Context, token string, groupID, createdBy int64) (*Invite, error)
	GetInvite(ctx context.Context, token string) (*Invite, error)
}

// ActivityLog records group events on the group's activity feed.
type ActivityLog interface {
	GroupCreated(ctx context.Context, groupID, actorID int64, groupName string)
	MemberAdded(ctx context.Context, groupID, actorID, memberID int64)
	MemberJoined(ctx context.Context, groupID, actorID int64)
}

// Service contains group business logic
type Service struct {
	store    Store
	activity ActivityLog
}

// NewService creates a new group service
func NewService(store Store, activity ActivityLog) *Service {
	return &Service{store: store, activity: activity}
}

// Create creates a group and enrolls the creator as its admin.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	group, err := s.store.Create(ctx, creatorID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	if _, err := s.store.AddMember(ctx, group.ID, creatorID, MemberRoleAdmin, MemberStatusJoined); err != nil {
		return nil, fmt.Errorf("failed to enroll creator: %w", err)
	}

	s.activity.GroupCreated(ctx, group.ID, creatorID, group.Name)
	return group, nil
}

// GetByID retrieves a group the caller belongs to.
func (s *Service) GetByID(ctx context.Context, userID, groupID int64) (*Group, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// ListByUserID retrieves the caller's groups with pagination.
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, limit int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	groups, total, err := s.store.ListByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, total, nil
}

// Update modifies a group. Only admins can update.
func (s *Service) Update(ctx context.Context, userID, groupID int64, req *UpdateGroupRequest) (*Group, error) {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := s.store.Update(ctx, groupID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// Delete removes a group. Only admins can delete.
func (s *Service) Delete(ctx context.Context, userID, groupID int64) error {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return err
	}
	return s.store.Delete(ctx, groupID)
}

// AddMember adds a user to a group. Only admins can add members directly.
func (s *Service) AddMember(ctx context.Context, actorID, groupID int64, req *AddMemberRequest) (*GroupMember, error) {
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	existing, err := s.store.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	member, err := s.store.AddMember(ctx, groupID, req.UserID, MemberRoleMember, MemberStatusJoined)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.activity.MemberAdded(ctx, groupID, actorID, req.UserID)
	return member, nil
}

// GetMembers lists the members of a group the caller belongs to.
func (s *Service) GetMembers(ctx context.Context, userID, groupID int64) ([]*GroupMember, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	members, err := s.store.GetMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	return members, nil
}

// RemoveMember removes a user from a group. Admins can remove anyone but
// themselves; regular members can only leave.
func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, userID int64) error {
	actor, err := s.store.GetMember(ctx, groupID, actorID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if actor == nil {
		return ErrNotGroupMember
	}

	if actorID == userID {
		if actor.Role == MemberRoleAdmin {
			return ErrCannotRemoveSelf
		}
	} else if actor.Role != MemberRoleAdmin {
		return ErrNotGroupAdmin
	}

	return s.store.RemoveMember(ctx, groupID, userID)
}

// CreateInvite mints an opaque invite token for a group.
func (s *Service) CreateInvite(ctx context.Context, actorID, groupID int64) (*Invite, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	invite, err := s.store.CreateInvite(ctx, uuid.NewString(), groupID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

// Join adds the caller to the group an invite token points at.
func (s *Service) Join(ctx context.Context, userID int64, token string) (*GroupMember, error) {
	invite, err := s.store.GetInvite(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}
	if invite == nil {
		return nil, ErrInviteNotFound
	}

	existing, err := s.store.GetMember(ctx, invite.GroupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	member, err := s.store.AddMember(ctx, invite.GroupID, userID, MemberRoleMember, MemberStatusJoined)
	if err != nil {
		return nil, fmt.Errorf("failed to join group: %w", err)
	}

	s.activity.MemberJoined(ctx, invite.GroupID, userID)
	return member, nil
}

func (s *Service) requireMember(ctx context.Context, groupID, userID int64) error {
	member, err := s.store.GetMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		return ErrNotGroupMember
	}
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, groupID, userID int64) error {
	member, err := s.store.GetMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		return ErrNotGroupMember
	}
	if member.Role != MemberRoleAdmin {
		return ErrNotGroupAdmin
	}
	return nil
}
