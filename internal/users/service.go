// Package users provides account management for administrators and profile
// self-service for regular users.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/identity/password"
	"github.com/avelius/taskboard/internal/pkg/ctxlog"
)

// Service errors.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrSelfAction             = errors.New("cannot perform this action on your own account")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrInvalidRole            = errors.New("invalid role")
)

// Service contains business logic for user account management.
type Service struct {
	repo   Repository
	hasher *password.Hasher
}

// NewService creates a new users service.
func NewService(repo Repository, hasher *password.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// GetByID returns a single user.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of users matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.User, int, error) {
	return s.repo.List(ctx, filter)
}

// UpdateProfileInput carries the profile fields a user may change.
type UpdateProfileInput struct {
	FirstName string
	LastName  string
}

// UpdateProfile changes the user's name fields.
func (s *Service) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// Delete removes a user account. An administrator cannot delete their own
// account so the system always keeps at least one usable admin.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfAction
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	ctxlog.FromContext(ctx).Info("user deleted", "user_id", id, "deleted_by", actorID)
	return nil
}

// ChangeRole assigns a new role to a user. Admins cannot change their own
// role for the same reason they cannot delete themselves.
func (s *Service) ChangeRole(ctx context.Context, actorID, id string, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if actorID == id {
		return nil, ErrSelfAction
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	ctxlog.FromContext(ctx).Info("user role changed", "user_id", id, "role", role, "changed_by", actorID)
	return user, nil
}

// SetActive activates or deactivates an account. Deactivated users keep
// their data but can no longer log in. Self-deactivation is rejected.
func (s *Service) SetActive(ctx context.Context, actorID, id string, active bool) (*domain.User, error) {
	if actorID == id {
		return nil, ErrSelfAction
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}

	ctxlog.FromContext(ctx).Info("user status changed", "user_id", id, "active", active, "changed_by", actorID)
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *Service) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if err := password.Validate(newPassword); err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return ErrInvalidCurrentPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	ctxlog.FromContext(ctx).Info("user password changed", "user_id", id)
	return nil
}
