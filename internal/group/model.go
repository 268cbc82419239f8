package group

import "time"

// MemberStatus represents the status of a group member
type MemberStatus string

const (
	MemberStatusInvited MemberStatus = "INVITED"
	MemberStatusJoined  MemberStatus = "JOINED"
)

// MemberRole represents the role of a group member
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

// Group represents a group in the system
type Group struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GroupMember represents a user's membership in a group
type GroupMember struct {
	ID       int64        `db:"id" json:"id"`
	GroupID  int64        `db:"group_id" json:"group_id"`
	UserID   int64        `db:"user_id" json:"user_id"`
	Status   MemberStatus `db:"status" json:"status"`
	Role     MemberRole   `db:"role" json:"role"`
	JoinedAt time.Time    `db:"joined_at" json:"joined_at"`

	// Populated from JOIN
	Username string `db:"username" json:"username,omitempty"`
	Email    string `db:"email" json:"email,omitempty"`
}

// Invite is a shareable token that lets a user join a group.
type Invite struct {
	Token     string    `db:"token" json:"token"`
	GroupID   int64     `db:"group_id" json:"group_id"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
