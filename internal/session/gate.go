package session

import (
	"github.com/docvault-console/internal/models"
)

// Gate answers capability questions for one session. A Gate built from a
// nil session denies everything.
type Gate struct {
	sess *models.Session
}

// NewGate creates a gate for sess
func NewGate(sess *models.Session) Gate {
	return Gate{sess: sess}
}

// Session returns the session the gate was built from
func (g Gate) Session() *models.Session {
	return g.sess
}

// Authenticated reports whether a session is present
func (g Gate) Authenticated() bool {
	return g.sess.Valid()
}

// CanManageUsers gates the user administration screen
func (g Gate) CanManageUsers() bool {
	return g.Authenticated() && g.sess.IsAdmin()
}

// CanAudit gates the audit log screen
func (g Gate) CanAudit() bool {
	return g.Authenticated() && g.sess.IsAdmin()
}

// CanComment gates posting comments
func (g Gate) CanComment() bool {
	return g.Authenticated() && g.sess.IsAdmin()
}

// CanDeleteDocument is true for admins and for the document author
func (g Gate) CanDeleteDocument(doc *models.Document) bool {
	if !g.Authenticated() || doc == nil {
		return false
	}
	return g.sess.IsAdmin() || g.sess.Username == doc.Author
}

// CanDownloadDocument follows the same rule as deletion
func (g Gate) CanDownloadDocument(doc *models.Document) bool {
	return g.CanDeleteDocument(doc)
}

// CanEditUser is true for admins acting on someone other than themselves
func (g Gate) CanEditUser(u *models.User) bool {
	if !g.CanManageUsers() || u == nil {
		return false
	}
	return u.Username != g.sess.Username && (g.sess.ID == 0 || u.ID != g.sess.ID)
}
