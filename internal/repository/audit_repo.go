package repository

import (
	"context"
	"sync"

	"github.com/docvault-console/internal/models"
)

// auditRepo is the in-memory implementation of AuditRepository
type auditRepo struct {
	mu      sync.RWMutex
	clock   Clock
	nextID  int
	entries []models.AuditEntry
}

// NewAuditRepo creates a new audit repository
func NewAuditRepo(clock Clock) AuditRepository {
	return &auditRepo{clock: clock, nextID: 1}
}

// Append records an action. Details longer than MaxAuditDetails bytes are
// cut on a rune boundary and suffixed with "...".
func (r *auditRepo) Append(ctx context.Context, username, action, details string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, models.AuditEntry{
		ID:        r.nextID,
		CreatedAt: stamp(r.clock),
		Username:  username,
		Action:    action,
		Details:   truncate(details, models.MaxAuditDetails),
	})
	r.nextID++
	return nil
}

// ListRecent returns up to limit entries, newest first
func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// Count returns the total number of audit entries
func (r *auditRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
