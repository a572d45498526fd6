package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/hamadkw/splitmate/internal/user"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotAMember          = errors.New("you are not a member of this group")
	ErrNotCreator          = errors.New("only the group's creator can do this")
	ErrNotAuthorized       = errors.New("you are not allowed to remove this member")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNoIdentifier        = errors.New("a user id, email or username is required")
	ErrEmptyName           = errors.New("group name is required")
)

const (
	roleAdmin  = "admin"
	roleMember = "member"
)

// Service handles group business logic
type Service struct {
	repo  *Repository
	users *user.Repository
}

// NewService creates a new group service
func NewService(repo *Repository, users *user.Repository) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

// Create creates a group and adds the creator as its admin member.
// If the membership insert fails the group is removed again so no
// memberless group is left behind.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, req *CreateGroupRequest) (*Group, error) {
	if req.Name == "" {
		return nil, ErrEmptyName
	}

	g, err := s.repo.Create(ctx, req.Name, req.Description, creatorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddMember(ctx, g.ID, creatorID, roleAdmin); err != nil {
		if delErr := s.repo.Delete(ctx, g.ID); delErr != nil {
			log.WithError(delErr).WithField("group_id", g.ID).Error("Failed to clean up group after membership failure")
		}
		return nil, err
	}

	return g, nil
}

// GetWithMembers retrieves a group and its member list. The caller
// must be a member.
func (s *Service) GetWithMembers(ctx context.Context, callerID, groupID uuid.UUID) (*Group, []*Membership, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, ErrGroupNotFound
	}

	isMember, err := s.repo.IsMember(ctx, groupID, callerID)
	if err != nil {
		return nil, nil, err
	}
	if !isMember {
		return nil, nil, ErrNotAMember
	}

	members, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	return g, members, nil
}

// ListByUserID retrieves the caller's groups with pagination
func (s *Service) ListByUserID(ctx context.Context, callerID uuid.UUID, limit, offset int) ([]*Group, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUserID(ctx, callerID, limit, offset)
}

// Delete removes a group. Only the creator may delete it.
func (s *Service) Delete(ctx context.Context, callerID, groupID uuid.UUID) error {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGroupNotFound
	}
	if g.CreatedBy != callerID {
		return ErrNotCreator
	}

	return s.repo.Delete(ctx, groupID)
}

// AddMember adds a user to a group. The caller must already be a
// member, and the target is resolved by user ID, email or username.
func (s *Service) AddMember(ctx context.Context, callerID, groupID uuid.UUID, req *AddMemberRequest) (*Membership, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	isMember, err := s.repo.IsMember(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotAMember
	}

	targetID, err := s.resolveUser(ctx, req)
	if err != nil {
		return nil, err
	}

	alreadyMember, err := s.repo.IsMember(ctx, groupID, targetID)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, ErrMemberAlreadyExists
	}

	return s.repo.AddMember(ctx, groupID, targetID, roleMember)
}

// RemoveMember removes a user from a group. Members may remove
// themselves; the creator may remove anyone.
func (s *Service) RemoveMember(ctx context.Context, callerID, groupID, targetID uuid.UUID) error {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGroupNotFound
	}

	if callerID != targetID && g.CreatedBy != callerID {
		return ErrNotAuthorized
	}

	isMember, err := s.repo.IsMember(ctx, groupID, targetID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotAMember
	}

	return s.repo.RemoveMember(ctx, groupID, targetID)
}

func (s *Service) resolveUser(ctx context.Context, req *AddMemberRequest) (uuid.UUID, error) {
	if req.UserID != uuid.Nil {
		profile, err := s.users.GetByUserID(ctx, req.UserID)
		if err != nil {
			return uuid.Nil, err
		}
		if profile == nil {
			return uuid.Nil, ErrUserNotFound
		}
		return profile.UserID, nil
	}

	var (
		profile *user.Profile
		err     error
	)
	switch {
	case req.Email != "":
		profile, err = s.users.GetByEmail(ctx, req.Email)
	case req.Username != "":
		profile, err = s.users.GetByUsername(ctx, req.Username)
	default:
		return uuid.Nil, ErrNoIdentifier
	}
	if err != nil {
		return uuid.Nil, err
	}
	if profile == nil {
		return uuid.Nil, ErrUserNotFound
	}

	return profile.UserID, nil
}
