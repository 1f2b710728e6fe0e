package repository

import (
	"context"
	"errors"
	"time"

	"github.com/docvault-console/internal/models"
)

// ErrDuplicate is returned when a unique username is already taken
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines the interface for account data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User, password string) error
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int, error)
}

// DocumentRepository defines the interface for document data operations
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id int) (*models.Document, error)
	List(ctx context.Context) ([]*models.Document, error)
	Delete(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByDocument(ctx context.Context, docID int) ([]models.Comment, error)
	Count(ctx context.Context) (int, error)
}

// AuditRepository defines the interface for audit log operations
type AuditRepository interface {
	Append(ctx context.Context, username, action, details string) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Document DocumentRepository
	Comment  CommentRepository
	Audit    AuditRepository
}

// Clock returns the current time; tests replace it
type Clock func() time.Time

// New creates in-memory repositories sharing one clock
func New(clock Clock) *Repositories {
	if clock == nil {
		clock = time.Now
	}
	return &Repositories{
		User:     NewUserRepo(clock),
		Document: NewDocumentRepo(clock),
		Comment:  NewCommentRepo(clock),
		Audit:    NewAuditRepo(clock),
	}
}

func stamp(clock Clock) string {
	return clock().Format(models.CreatedAtLayout)
}
