package user

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateProfileRequest represents the request to update a profile
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty"`
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// FriendRequestRequest asks to befriend another user, identified by
// email or username
type FriendRequestRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// ProfileResponse represents the response for a profile
type ProfileResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt string    `json:"created_at"`
}

// FriendResponse represents the response for a friendship row
type FriendResponse struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	FriendID  uuid.UUID        `json:"friend_id"`
	Status    FriendStatus     `json:"status"`
	CreatedAt string           `json:"created_at"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
}

// OverallBalance sums the caller's per-group balances across all their
// groups
type OverallBalance struct {
	TotalOwed  decimal.Decimal `json:"total_owed"`
	TotalOwing decimal.Decimal `json:"total_owing"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// ToResponse converts a Profile model to a ProfileResponse DTO
func (p *Profile) ToResponse() *ProfileResponse {
	return &ProfileResponse{
		UserID:    p.UserID,
		Username:  p.Username,
		Email:     p.Email,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Friend model to a FriendResponse DTO
func (f *Friend) ToResponse() *FriendResponse {
	resp := &FriendResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		FriendID:  f.FriendID,
		Status:    f.Status,
		CreatedAt: f.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if f.Profile != nil {
		resp.Profile = f.Profile.ToResponse()
	}
	return resp
}
