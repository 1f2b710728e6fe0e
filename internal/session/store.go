package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/docvault-console/internal/models"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Store persists the single active session as a JSON file
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore creates a store backed by the file at path
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "session").Logger(),
	}
}

// Path returns the backing file location
func (s *Store) Path() string {
	return s.path
}

// Get returns the stored session. A missing, unreadable or malformed
// record is reported as no session.
func (s *Store) Get() (*models.Session, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Failed to read session file")
		}
		return nil, false
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("Malformed session file, treating as logged out")
		return nil, false
	}
	if !sess.Valid() {
		s.log.Warn().Str("path", s.path).Str("role", string(sess.Role)).Msg("Invalid session record, treating as logged out")
		return nil, false
	}
	return &sess, true
}

// Save replaces the stored session
func (s *Store) Save(sess *models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("%w: refusing to store incomplete session", models.ErrValidation)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Debug().Str("username", sess.Username).Msg("Session stored")
	return nil
}

// Clear removes the stored session. It never fails on a missing file
// and always leaves the store without a readable session.
func (s *Store) Clear() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", s.path).Msg("Failed to remove session file, truncating")
		os.WriteFile(s.path, nil, 0o600)
	}
	s.log.Debug().Msg("Session cleared")
}
