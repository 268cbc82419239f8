package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository handles group, membership and invite persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group into the database
func (r *Repository) Create(ctx context.Context, createdBy int64, req *CreateGroupRequest) (*Group, error) {
	query := `
		INSERT INTO groups (name, description, image_url, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, image_url, created_by, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Description, req.ImageURL, createdBy).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.ImageURL,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by its ID, or nil if it does not exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, name, description, image_url, created_by, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	if err := r.db.GetContext(ctx, group, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListByUserID retrieves all groups a user belongs to, with pagination.
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
	`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.description, g.image_url, g.created_by, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var groups []*Group
	if err := r.db.SelectContext(ctx, &groups, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, total, nil
}

// Update modifies an existing group
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    image_url = COALESCE($4, image_url)
		WHERE id = $1
		RETURNING id, name, description, image_url, created_by, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.ImageURL).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.ImageURL,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return group, nil
}

// Delete removes a group
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// AddMember adds a user to a group
func (r *Repository) AddMember(ctx context.Context, groupID int64, userID int64, role MemberRole, status MemberStatus) (*GroupMember, error) {
	query := `
		INSERT INTO group_members (group_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, user_id, status, role, joined_at
	`

	member := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, role, status).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMember retrieves one membership row, or nil if the user is not in the
// group.
func (r *Repository) GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	query := `
		SELECT m.id, m.group_id, m.user_id, m.status, m.role, m.joined_at, u.username, u.email
		FROM group_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.group_id = $1 AND m.user_id = $2
	`

	member := &GroupMember{}
	if err := r.db.GetContext(ctx, member, query, groupID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// GetMembers retrieves all members of a group
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	query := `
		SELECT m.id, m.group_id, m.user_id, m.status, m.role, m.joined_at, u.username, u.email
		FROM group_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.group_id = $1
		ORDER BY m.joined_at
	`

	var members []*GroupMember
	if err := r.db.SelectContext(ctx, &members, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	return members, nil
}

// MemberIDs returns the user ids of all group members. The expense and
// ledger features resolve participants against this set.
func (r *Repository) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id`
	if err := r.db.SelectContext(ctx, &ids, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}
	return ids, nil
}

// MemberNames returns a user id to username mapping for a group.
func (r *Repository) MemberNames(ctx context.Context, groupID int64) (map[int64]string, error) {
	rows := []struct {
		UserID   int64  `db:"user_id"`
		Username string `db:"username"`
	}{}
	query := `
		SELECT m.user_id, u.username
		FROM group_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.group_id = $1
	`
	if err := r.db.SelectContext(ctx, &rows, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to get member names: %w", err)
	}

	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.UserID] = row.Username
	}
	return names, nil
}

// RemoveMember removes a user from a group
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// CreateInvite mints an invite token for a group.
func (r *Repository) CreateInvite(ctx context.Context, token string, groupID, createdBy int64) (*Invite, error) {
	query := `
		INSERT INTO group_invites (token, group_id, created_by)
		VALUES ($1, $2, $3)
		RETURNING token, group_id, created_by, created_at
	`

	invite := &Invite{}
	err := r.db.QueryRowContext(ctx, query, token, groupID, createdBy).Scan(
		&invite.Token,
		&invite.GroupID,
		&invite.CreatedBy,
		&invite.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

// GetInvite retrieves an invite by its token, or nil if it does not exist.
func (r *Repository) GetInvite(ctx context.Context, token string) (*Invite, error) {
	query := `
		SELECT token, group_id, created_by, created_at
		FROM group_invites
		WHERE token = $1
	`

	invite := &Invite{}
	if err := r.db.GetContext(ctx, invite, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return invite, nil
}
