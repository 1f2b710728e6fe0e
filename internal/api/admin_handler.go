package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/repository"
	"github.com/docvault-console/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// auditPageSize is how many entries GET /audit returns
const auditPageSize = 100

// AdminHandler handles accounts, the audit log and statistics
type AdminHandler struct {
	handlerBase
	enforceRoles bool
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(repos *repository.Repositories, enforceRoles bool, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		handlerBase:  handlerBase{repos: repos, log: log.With().Str("handler", "admin").Logger()},
		enforceRoles: enforceRoles,
	}
}

// Stats handles GET /api/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.repos.User.Count(ctx)
	if err != nil {
		h.internalError(c, err, "Failed to count users")
		return
	}
	docs, err := h.repos.Document.Count(ctx)
	if err != nil {
		h.internalError(c, err, "Failed to count documents")
		return
	}
	audits, err := h.repos.Audit.Count(ctx)
	if err != nil {
		h.internalError(c, err, "Failed to count audit entries")
		return
	}

	c.JSON(http.StatusOK, models.Stats{Users: int64(users), Docs: int64(docs), Audits: int64(audits)})
}

// ListAudit handles GET /api/audit
func (h *AdminHandler) ListAudit(c *gin.Context) {
	entries, err := h.repos.Audit.ListRecent(c.Request.Context(), auditPageSize)
	if err != nil {
		h.internalError(c, err, "Failed to list audit log")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListUsers handles GET /api/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.repos.User.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser handles PUT /api/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !h.allowTarget(c, id) {
		return
	}

	var req models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	if errs := validation.ValidateUserUpdate(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.Error(), "details": errs})
		return
	}

	user, err := h.repos.User.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		h.internalError(c, err, "Failed to update user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	h.audit(c.Request.Context(), actorName(c, ""), models.ActionUpdateUser, fmt.Sprintf("ID: %d", id))

	c.JSON(http.StatusOK, "Updated")
}

// DeleteUser handles DELETE /api/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !h.allowTarget(c, id) {
		return
	}

	found, err := h.repos.User.Delete(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "Failed to delete user")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	h.audit(c.Request.Context(), actorName(c, ""), models.ActionDeleteUser, fmt.Sprintf("ID: %d", id))

	c.JSON(http.StatusOK, "Deleted")
}

// allowTarget refuses admin operations on the caller's own account
func (h *AdminHandler) allowTarget(c *gin.Context, id int) bool {
	if !h.enforceRoles {
		return true
	}
	if user := currentUser(c); user != nil && user.ID == id {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot modify your own account"})
		return false
	}
	return true
}

func (h *AdminHandler) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
