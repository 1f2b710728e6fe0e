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

// authService is the concrete implementation of AuthService
type authService struct {
	api   apiclient.API
	store SessionStore
	log   zerolog.Logger
}

func newAuthService(api apiclient.API, store SessionStore, log zerolog.Logger) *authService {
	return &authService{
		api:   api,
		store: store,
		log:   log.With().Str("service", "auth").Logger(),
	}
}

// Login authenticates and persists the resulting session
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.Session, error) {
	if err := validation.ValidateLogin(req).Err(); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	sess := models.SessionFromUser(resp.User, resp.Token)
	if err := s.store.Save(sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.log.Info().Str("username", sess.Username).Str("role", string(sess.Role)).Msg("Logged in")
	return sess, nil
}

// Register creates an account and sends the user back to the login screen
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (session.View, error) {
	if err := validation.ValidateRegister(req).Err(); err != nil {
		return session.ViewRegister, err
	}

	if err := s.api.Register(ctx, req); err != nil {
		return session.ViewRegister, fmt.Errorf("registration failed: %w", err)
	}

	s.log.Info().Str("username", req.Username).Msg("Registered")
	return session.ViewLogin, nil
}

// Logout forgets the session; it cannot fail
func (s *authService) Logout() session.View {
	s.store.Clear()
	s.log.Info().Msg("Logged out")
	return session.ViewLogin
}
