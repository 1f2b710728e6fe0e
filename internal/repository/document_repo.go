package repository

import (
	"context"
	"sync"

	"github.com/docvault-console/internal/models"
)

// documentRepo is the in-memory implementation of DocumentRepository
type documentRepo struct {
	mu     sync.RWMutex
	clock  Clock
	nextID int
	docs   []*models.Document // insertion order
}

// NewDocumentRepo creates a new document repository
func NewDocumentRepo(clock Clock) DocumentRepository {
	return &documentRepo{clock: clock, nextID: 1}
}

// Create stores a document; CreatedAt is stamped when the client sent none
func (r *documentRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc.ID = r.nextID
	r.nextID++
	if doc.CreatedAt == nil {
		doc.CreatedAt = models.StringPtr(stamp(r.clock))
	}
	cp := *doc
	r.docs = append(r.docs, &cp)
	return nil
}

// GetByID retrieves a document by ID
func (r *documentRepo) GetByID(ctx context.Context, id int) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.docs {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

// List returns copies of all documents in insertion order
func (r *documentRepo) List(ctx context.Context) ([]*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Document, len(r.docs))
	for i, d := range r.docs {
		cp := *d
		out[i] = &cp
	}
	return out, nil
}

// Delete removes a document and reports whether it existed
func (r *documentRepo) Delete(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, d := range r.docs {
		if d.ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Count returns the total number of documents
func (r *documentRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs), nil
}
