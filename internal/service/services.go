package service

import (
	"context"
	"fmt"
	"time"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/comments"
	"github.com/docvault-console/internal/docquery"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/report"
	"github.com/docvault-console/internal/session"
	"github.com/rs/zerolog"
)

// SessionStore persists the active session
type SessionStore interface {
	Get() (*models.Session, bool)
	Save(sess *models.Session) error
	Clear()
}

// AuthService defines the login, register and logout screens
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.Session, error)
	Register(ctx context.Context, req *models.RegisterRequest) (session.View, error)
	Logout() session.View
}

// DashboardService defines the landing screen
type DashboardService interface {
	Load(ctx context.Context) (*Dashboard, error)
}

// DocumentService defines the document management screen
type DocumentService interface {
	List(ctx context.Context, q docquery.Query) (*DocumentList, error)
	Find(ctx context.Context, id int) (*models.Document, error)
	Open(ctx context.Context, id int) (*DocumentView, error)
	Delete(ctx context.Context, doc *models.Document) error
	Download(doc *models.Document, dir string) (string, error)
	Report(doc *models.Document, dir string) (string, error)
	OpenReport(doc *models.Document, opener report.Opener) (string, error)
	Comment(ctx context.Context, docID int, text string) ([]models.Comment, error)
}

// CreateService defines the upload screen
type CreateService interface {
	Create(ctx context.Context, form DocumentForm) (*models.CreateDocumentRequest, error)
	CreateFromFile(ctx context.Context, path string, form DocumentForm) (*models.CreateDocumentRequest, error)
}

// ProfileService defines the profile screen
type ProfileService interface {
	Load(ctx context.Context) (*Profile, error)
}

// AuditService defines the audit log screen
type AuditService interface {
	List(ctx context.Context) ([]models.AuditEntry, error)
}

// UserService defines the user administration screen
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Find(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, target *models.User, req *models.UpdateUserRequest) error
	Delete(ctx context.Context, target *models.User) error
}

// Dependencies are the explicit collaborators of the screen controllers
type Dependencies struct {
	API      apiclient.API
	Public   apiclient.API   // tokenless client for login and register; API when nil
	Session  *models.Session // nil when logged out
	Store    SessionStore
	Renderer *report.Renderer
	Clock    func() time.Time
}

// Services holds all service interfaces
type Services struct {
	Auth      AuthService
	Dashboard DashboardService
	Documents DocumentService
	Create    CreateService
	Profile   ProfileService
	Audit     AuditService
	Users     UserService
}

// NewServices creates all services
func NewServices(deps Dependencies, log zerolog.Logger) *Services {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Public == nil {
		deps.Public = deps.API
	}
	gate := session.NewGate(deps.Session)
	thread := comments.NewThread(deps.API, log)

	return &Services{
		Auth:      newAuthService(deps.Public, deps.Store, log),
		Dashboard: newDashboardService(deps.API, deps.Session, log),
		Documents: newDocumentService(deps.API, gate, thread, deps.Renderer, log),
		Create:    newCreateService(deps.API, deps.Session, deps.Clock, log),
		Profile:   newProfileService(deps.API, deps.Session, log),
		Audit:     newAuditService(deps.API, gate, log),
		Users:     newUserService(deps.API, gate, log),
	}
}

// requireSession fails with ErrNoSession for protected screens
func requireSession(sess *models.Session) error {
	if !sess.Valid() {
		return models.ErrNoSession
	}
	return nil
}

func denied(action string) error {
	return fmt.Errorf("%s: %w", action, models.ErrAuthorization)
}
