package repository

import (
	"context"
	"sync"

	"github.com/docvault-console/internal/models"
)

// commentRepo is the in-memory implementation of CommentRepository
type commentRepo struct {
	mu       sync.RWMutex
	clock    Clock
	nextID   int
	comments []models.Comment
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(clock Clock) CommentRepository {
	return &commentRepo{clock: clock, nextID: 1}
}

// Create appends a comment; ID and CreatedAt are assigned here
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = r.clock().Format("2006-01-02 15:04")
	r.comments = append(r.comments, *comment)
	return nil
}

// ListByDocument returns the thread of a document in creation order
func (r *commentRepo) ListByDocument(ctx context.Context, docID int) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.DocID == docID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.comments), nil
}
