package activity

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository handles activity feed persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new activity repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new activity entry.
func (r *Repository) Create(ctx context.Context, groupID, userID int64, typ Type, description string, entityID *int64) (*Activity, error) {
	query := `
		INSERT INTO activities (group_id, user_id, type, description, entity_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, user_id, type, description, entity_id, created_at
	`

	activity := &Activity{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, typ, description, entityID).Scan(
		&activity.ID,
		&activity.GroupID,
		&activity.UserID,
		&activity.Type,
		&activity.Description,
		&activity.EntityID,
		&activity.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return activity, nil
}

// ListByGroupID retrieves one page of a group's activity feed, newest first.
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Activity, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM activities WHERE group_id = $1`, groupID); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := `
		SELECT a.id, a.group_id, a.user_id, a.type, a.description, a.entity_id, a.created_at,
		       u.username
		FROM activities a
		JOIN users u ON a.user_id = u.id
		WHERE a.group_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var activities []*Activity
	if err := r.db.SelectContext(ctx, &activities, query, groupID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}

	return activities, total, nil
}
