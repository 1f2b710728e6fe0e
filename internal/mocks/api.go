package mocks

import (
	"context"
	"sync"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/models"
)

// MockAPI is an in-memory implementation of apiclient.API. Errors set in
// Errors are returned by the method of the same name.
type MockAPI struct {
	mu sync.Mutex

	Documents     []*models.Document
	Comments      map[int][]models.Comment
	Audit         []models.AuditEntry
	Users         []models.User
	StatsResult   models.Stats
	LoginResponse *models.LoginResponse

	Errors map[string]error
	Calls  []string

	Registered       []*models.RegisterRequest
	CreatedDocuments []*models.CreateDocumentRequest
	CreatedComments  []*models.CreateCommentRequest
	UpdatedUsers     map[int]*models.UpdateUserRequest
	DeletedDocuments []int
	DeletedUsers     []int
}

// Verify interface compliance
var _ apiclient.API = (*MockAPI)(nil)

func NewMockAPI() *MockAPI {
	return &MockAPI{
		Comments:     make(map[int][]models.Comment),
		Errors:       make(map[string]error),
		UpdatedUsers: make(map[int]*models.UpdateUserRequest),
	}
}

// CallCount returns how many times method was invoked
func (m *MockAPI) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *MockAPI) record(method string) error {
	m.Calls = append(m.Calls, method)
	return m.Errors[method]
}

func (m *MockAPI) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("Login"); err != nil {
		return nil, err
	}
	if m.LoginResponse != nil {
		return m.LoginResponse, nil
	}
	return &models.LoginResponse{
		Token: "test-token",
		User:  models.User{ID: 1, Username: req.Username, FullName: req.Username, Role: models.RoleUser},
	}, nil
}

func (m *MockAPI) Register(ctx context.Context, req *models.RegisterRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("Register"); err != nil {
		return err
	}
	m.Registered = append(m.Registered, req)
	return nil
}

func (m *MockAPI) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListDocuments"); err != nil {
		return nil, err
	}
	docs := make([]*models.Document, len(m.Documents))
	copy(docs, m.Documents)
	return docs, nil
}

func (m *MockAPI) CreateDocument(ctx context.Context, req *models.CreateDocumentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("CreateDocument"); err != nil {
		return err
	}
	m.CreatedDocuments = append(m.CreatedDocuments, req)
	m.Documents = append(m.Documents, &models.Document{
		ID:        len(m.Documents) + 1,
		Title:     req.Title,
		Author:    req.Username,
		Content:   req.Content,
		Category:  req.Category,
		CreatedAt: req.CreatedAt,
	})
	return nil
}

func (m *MockAPI) DeleteDocument(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("DeleteDocument"); err != nil {
		return err
	}
	m.DeletedDocuments = append(m.DeletedDocuments, id)
	for i, d := range m.Documents {
		if d.ID == id {
			m.Documents = append(m.Documents[:i], m.Documents[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockAPI) ListComments(ctx context.Context, docID int) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListComments"); err != nil {
		return nil, err
	}
	return append([]models.Comment(nil), m.Comments[docID]...), nil
}

func (m *MockAPI) CreateComment(ctx context.Context, req *models.CreateCommentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("CreateComment"); err != nil {
		return err
	}
	m.CreatedComments = append(m.CreatedComments, req)
	thread := m.Comments[req.DocID]
	m.Comments[req.DocID] = append(thread, models.Comment{
		ID:        len(thread) + 1,
		DocID:     req.DocID,
		AdminName: req.Username,
		Text:      req.Text,
		CreatedAt: "2024-01-01 00:00",
	})
	return nil
}

func (m *MockAPI) ListAudit(ctx context.Context) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListAudit"); err != nil {
		return nil, err
	}
	return append([]models.AuditEntry(nil), m.Audit...), nil
}

func (m *MockAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListUsers"); err != nil {
		return nil, err
	}
	return append([]models.User(nil), m.Users...), nil
}

func (m *MockAPI) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("UpdateUser"); err != nil {
		return err
	}
	m.UpdatedUsers[id] = req
	return nil
}

func (m *MockAPI) DeleteUser(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("DeleteUser"); err != nil {
		return err
	}
	m.DeletedUsers = append(m.DeletedUsers, id)
	return nil
}

func (m *MockAPI) Stats(ctx context.Context) (*models.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("Stats"); err != nil {
		return nil, err
	}
	stats := m.StatsResult
	return &stats, nil
}
