package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles profile and friendship data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const profileColumns = `id, user_id, username, email, full_name, avatar_url, created_at`

func scanProfile(row *sql.Row) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.Email,
		&p.FullName,
		&p.AvatarURL,
		&p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetByUserID retrieves a profile by user ID
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

// GetByEmail retrieves a profile by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves a profile by username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, username))
}

// Update modifies a profile
func (r *Repository) Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	query := `
		UPDATE profiles
		SET username = COALESCE($2, username),
		    full_name = COALESCE($3, full_name),
		    avatar_url = COALESCE($4, avatar_url),
		    updated_at = now()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	return scanProfile(r.db.QueryRowContext(ctx, query, userID, req.Username, req.FullName, req.AvatarURL))
}

// CreateFriend inserts a friendship row
func (r *Repository) CreateFriend(ctx context.Context, userID, friendID uuid.UUID, status FriendStatus) (*Friend, error) {
	query := `
		INSERT INTO friends (user_id, friend_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, friend_id, status, created_at
	`

	f := &Friend{}
	err := r.db.QueryRowContext(ctx, query, userID, friendID, status).Scan(
		&f.ID,
		&f.UserID,
		&f.FriendID,
		&f.Status,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}

	return f, nil
}

// GetFriendship finds a friendship row between two users in either
// direction
func (r *Repository) GetFriendship(ctx context.Context, userID, otherID uuid.UUID) (*Friend, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at
		FROM friends
		WHERE (user_id = $1 AND friend_id = $2)
		   OR (user_id = $2 AND friend_id = $1)
		LIMIT 1
	`

	f := &Friend{}
	err := r.db.QueryRowContext(ctx, query, userID, otherID).Scan(
		&f.ID,
		&f.UserID,
		&f.FriendID,
		&f.Status,
		&f.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}

	return f, nil
}

// GetFriendByID retrieves a friendship row by its ID
func (r *Repository) GetFriendByID(ctx context.Context, id uuid.UUID) (*Friend, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at
		FROM friends
		WHERE id = $1
	`

	f := &Friend{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.UserID,
		&f.FriendID,
		&f.Status,
		&f.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}

	return f, nil
}

// UpdateFriendStatus updates a friendship row's status
func (r *Repository) UpdateFriendStatus(ctx context.Context, id uuid.UUID, status FriendStatus) error {
	query := `UPDATE friends SET status = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to update friendship: %w", err)
	}

	return nil
}

// DeleteFriend removes a friendship row
func (r *Repository) DeleteFriend(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM friends WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	return nil
}

// listFriendRows runs a friendship query joining the other side's
// profile
func (r *Repository) listFriendRows(ctx context.Context, query string, userID uuid.UUID) ([]*Friend, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var friends []*Friend
	for rows.Next() {
		f := &Friend{Profile: &Profile{}}
		if err := rows.Scan(
			&f.ID,
			&f.UserID,
			&f.FriendID,
			&f.Status,
			&f.CreatedAt,
			&f.Profile.ID,
			&f.Profile.UserID,
			&f.Profile.Username,
			&f.Profile.Email,
			&f.Profile.FullName,
			&f.Profile.AvatarURL,
			&f.Profile.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friends = append(friends, f)
	}

	return friends, rows.Err()
}

// ListFriends retrieves a user's accepted friends with profiles
func (r *Repository) ListFriends(ctx context.Context, userID uuid.UUID) ([]*Friend, error) {
	query := `
		SELECT f.id, f.user_id, f.friend_id, f.status, f.created_at,
		       p.id, p.user_id, p.username, p.email, p.full_name, p.avatar_url, p.created_at
		FROM friends f
		JOIN profiles p ON f.friend_id = p.user_id
		WHERE f.user_id = $1 AND f.status = 'accepted'
		ORDER BY p.username
	`
	return r.listFriendRows(ctx, query, userID)
}

// ListPendingRequests retrieves friend requests awaiting the user's
// response, with the requester's profile
func (r *Repository) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]*Friend, error) {
	query := `
		SELECT f.id, f.user_id, f.friend_id, f.status, f.created_at,
		       p.id, p.user_id, p.username, p.email, p.full_name, p.avatar_url, p.created_at
		FROM friends f
		JOIN profiles p ON f.user_id = p.user_id
		WHERE f.friend_id = $1 AND f.status = 'pending'
		ORDER BY f.created_at DESC
	`
	return r.listFriendRows(ctx, query, userID)
}

// GroupIDs retrieves the IDs of all groups the user belongs to
func (r *Repository) GroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT group_id FROM group_memberships WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group memberships: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
