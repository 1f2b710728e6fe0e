package service

import (
	"context"
	"fmt"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/session"
	"github.com/docvault-console/internal/validation"
	"github.com/rs/zerolog"
)

// auditService is the concrete implementation of AuditService
type auditService struct {
	api  apiclient.API
	gate session.Gate
	log  zerolog.Logger
}

func newAuditService(api apiclient.API, gate session.Gate, log zerolog.Logger) *auditService {
	return &auditService{
		api:  api,
		gate: gate,
		log:  log.With().Str("service", "audit").Logger(),
	}
}

// List returns the audit log as ordered by the server
func (s *auditService) List(ctx context.Context) ([]models.AuditEntry, error) {
	if err := requireSession(s.gate.Session()); err != nil {
		return nil, err
	}
	if !s.gate.CanAudit() {
		return nil, denied("the audit log is restricted to administrators")
	}

	entries, err := s.api.ListAudit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}
	return entries, nil
}

// userService is the concrete implementation of UserService
type userService struct {
	api  apiclient.API
	gate session.Gate
	log  zerolog.Logger
}

func newUserService(api apiclient.API, gate session.Gate, log zerolog.Logger) *userService {
	return &userService{
		api:  api,
		gate: gate,
		log:  log.With().Str("service", "users").Logger(),
	}
}

// List returns every account
func (s *userService) List(ctx context.Context) ([]models.User, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}

	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// Find returns the account with the given id
func (s *userService) Find(ctx context.Context, id int) (*models.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
}

// Update changes another account's name, login and role
func (s *userService) Update(ctx context.Context, target *models.User, req *models.UpdateUserRequest) error {
	if err := s.authorize(); err != nil {
		return err
	}
	if !s.gate.CanEditUser(target) {
		return denied("administrators cannot edit their own account")
	}
	if err := validation.ValidateUserUpdate(req).Err(); err != nil {
		return err
	}

	if err := s.api.UpdateUser(ctx, target.ID, req); err != nil {
		return fmt.Errorf("failed to update user %d: %w", target.ID, err)
	}

	s.log.Info().Int("user_id", target.ID).Str("role", string(req.Role)).Msg("User updated")
	return nil
}

// Delete removes another account
func (s *userService) Delete(ctx context.Context, target *models.User) error {
	if err := s.authorize(); err != nil {
		return err
	}
	if !s.gate.CanEditUser(target) {
		return denied("administrators cannot delete their own account")
	}

	if err := s.api.DeleteUser(ctx, target.ID); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", target.ID, err)
	}

	s.log.Info().Int("user_id", target.ID).Msg("User deleted")
	return nil
}

func (s *userService) authorize() error {
	if err := requireSession(s.gate.Session()); err != nil {
		return err
	}
	if !s.gate.CanManageUsers() {
		return denied("user management is restricted to administrators")
	}
	return nil
}
