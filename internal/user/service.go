package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hamadkw/splitmate/internal/settlement"
)

// Common errors
var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrCannotBefriend   = errors.New("you cannot add yourself as a friend")
	ErrAlreadyFriends   = errors.New("friend request already exists or you are already friends")
	ErrNoIdentifier     = errors.New("an email or username is required")
	ErrNotRequestTarget = errors.New("only the request's recipient can respond")
	ErrNotPending       = errors.New("friend request is not pending")
)

// Service handles profile and friendship business logic
type Service struct {
	repo        *Repository
	settlements *settlement.Service
}

// NewService creates a new user service
func NewService(repo *Repository, settlements *settlement.Service) *Service {
	return &Service{
		repo:        repo,
		settlements: settlements,
	}
}

// GetProfile retrieves a profile by user ID
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateProfile modifies the caller's profile
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	profile, err := s.repo.Update(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// SendFriendRequest creates a pending friendship towards a user
// resolved by email or username
func (s *Service) SendFriendRequest(ctx context.Context, callerID uuid.UUID, req *FriendRequestRequest) (*Friend, error) {
	var (
		target *Profile
		err    error
	)
	switch {
	case req.Email != "":
		target, err = s.repo.GetByEmail(ctx, req.Email)
	case req.Username != "":
		target, err = s.repo.GetByUsername(ctx, req.Username)
	default:
		return nil, ErrNoIdentifier
	}
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrProfileNotFound
	}

	if target.UserID == callerID {
		return nil, ErrCannotBefriend
	}

	existing, err := s.repo.GetFriendship(ctx, callerID, target.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyFriends
	}

	friend, err := s.repo.CreateFriend(ctx, callerID, target.UserID, FriendStatusPending)
	if err != nil {
		return nil, err
	}

	friend.Profile = target
	return friend, nil
}

// AcceptFriendRequest accepts a pending request and creates the
// reverse row so the friendship is visible from both sides
func (s *Service) AcceptFriendRequest(ctx context.Context, callerID, requestID uuid.UUID) error {
	request, err := s.pendingRequestFor(ctx, callerID, requestID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateFriendStatus(ctx, requestID, FriendStatusAccepted); err != nil {
		return err
	}

	_, err = s.repo.CreateFriend(ctx, request.FriendID, request.UserID, FriendStatusAccepted)
	return err
}

// RejectFriendRequest deletes a pending request
func (s *Service) RejectFriendRequest(ctx context.Context, callerID, requestID uuid.UUID) error {
	if _, err := s.pendingRequestFor(ctx, callerID, requestID); err != nil {
		return err
	}
	return s.repo.DeleteFriend(ctx, requestID)
}

// BlockFriendRequest marks a pending request as blocked
func (s *Service) BlockFriendRequest(ctx context.Context, callerID, requestID uuid.UUID) error {
	if _, err := s.pendingRequestFor(ctx, callerID, requestID); err != nil {
		return err
	}
	return s.repo.UpdateFriendStatus(ctx, requestID, FriendStatusBlocked)
}

// pendingRequestFor loads a request and checks the caller is its
// recipient and it is still pending
func (s *Service) pendingRequestFor(ctx context.Context, callerID, requestID uuid.UUID) (*Friend, error) {
	request, err := s.repo.GetFriendByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if request.FriendID != callerID {
		return nil, ErrNotRequestTarget
	}
	if request.Status != FriendStatusPending {
		return nil, ErrNotPending
	}
	return request, nil
}

// ListFriends retrieves the caller's accepted friends
func (s *Service) ListFriends(ctx context.Context, callerID uuid.UUID) ([]*Friend, error) {
	return s.repo.ListFriends(ctx, callerID)
}

// ListPendingRequests retrieves requests awaiting the caller's
// response
func (s *Service) ListPendingRequests(ctx context.Context, callerID uuid.UUID) ([]*Friend, error) {
	return s.repo.ListPendingRequests(ctx, callerID)
}

// OverallBalance sums the caller's balance across every group they
// belong to: positive balances into total_owed, negative into
// total_owing
func (s *Service) OverallBalance(ctx context.Context, callerID uuid.UUID) (*OverallBalance, error) {
	groupIDs, err := s.repo.GroupIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}

	totalOwed := decimal.Zero
	totalOwing := decimal.Zero
	for _, groupID := range groupIDs {
		balances, err := s.settlements.ComputeBalances(ctx, callerID, groupID)
		if err != nil {
			return nil, err
		}
		for _, b := range balances {
			if b.UserID != callerID {
				continue
			}
			if b.Balance.IsPositive() {
				totalOwed = totalOwed.Add(b.Balance)
			} else if b.Balance.IsNegative() {
				totalOwing = totalOwing.Add(b.Balance.Neg())
			}
		}
	}

	return &OverallBalance{
		TotalOwed:  totalOwed,
		TotalOwing: totalOwing,
		NetBalance: totalOwed.Sub(totalOwing),
	}, nil
}
