package activity

import "time"

// Type classifies an activity entry.
type Type string

const (
	TypeGroupCreated   Type = "GROUP_CREATED"
	TypeMemberAdded    Type = "MEMBER_ADDED"
	TypeMemberJoined   Type = "MEMBER_JOINED"
	TypeExpenseCreated Type = "EXPENSE_CREATED"
	TypeExpenseDeleted Type = "EXPENSE_DELETED"
)

// Activity is one entry in a group's activity feed.
type Activity struct {
	ID          int64     `db:"id" json:"id"`
	GroupID     int64     `db:"group_id" json:"group_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Type        Type      `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	EntityID    *int64    `db:"entity_id" json:"entity_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Populated via JOIN
	Username string `db:"username" json:"username,omitempty"`
}

// ActivityResponse represents one feed entry in API responses.
type ActivityResponse struct {
	ID          int64  `json:"id"`
	GroupID     int64  `json:"group_id"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username,omitempty"`
	Type        Type   `json:"type"`
	Description string `json:"description"`
	EntityID    *int64 `json:"entity_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ToResponse converts an Activity model to its response DTO.
func (a *Activity) ToResponse() *ActivityResponse {
	return &ActivityResponse{
		ID:          a.ID,
		GroupID:     a.GroupID,
		UserID:      a.UserID,
		Username:    a.Username,
		Type:        a.Type,
		Description: a.Description,
		EntityID:    a.EntityID,
		CreatedAt:   a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
