package group

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a named collection of members who share expenses
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Membership represents a user's membership in a group
type Membership struct {
	ID       uuid.UUID `json:"id"`
	GroupID  uuid.UUID `json:"group_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
