package mocks

import (
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/service"
)

// MockSessionStore keeps the session in memory
type MockSessionStore struct {
	Current    *models.Session
	SaveError  error
	SaveCalls  int
	ClearCalls int
}

// Verify interface compliance
var _ service.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

func (m *MockSessionStore) Get() (*models.Session, bool) {
	if !m.Current.Valid() {
		return nil, false
	}
	return m.Current, true
}

func (m *MockSessionStore) Save(sess *models.Session) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Current = sess
	return nil
}

func (m *MockSessionStore) Clear() {
	m.ClearCalls++
	m.Current = nil
}
