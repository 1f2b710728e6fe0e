package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/repository"
	"github.com/docvault-console/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DocumentHandler handles documents and their comment threads
type DocumentHandler struct {
	handlerBase
	enforceRoles bool
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(repos *repository.Repositories, enforceRoles bool, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		handlerBase:  handlerBase{repos: repos, log: log.With().Str("handler", "document").Logger()},
		enforceRoles: enforceRoles,
	}
}

// List handles GET /api/documents
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.repos.Document.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list documents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Create handles POST /api/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var req models.CreateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	if errs := validation.ValidateDocument(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.Error(), "details": errs})
		return
	}

	doc := &models.Document{
		Title:     req.Title,
		Author:    req.Username,
		Content:   req.Content,
		Category:  req.Category,
		CreatedAt: req.CreatedAt,
	}
	if err := h.repos.Document.Create(c.Request.Context(), doc); err != nil {
		h.log.Error().Err(err).Msg("Failed to create document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		return
	}

	h.audit(c.Request.Context(), actorName(c, req.Username), models.ActionCreateDoc, fmt.Sprintf("ID: %d, Title: %s", doc.ID, doc.Title))

	c.JSON(http.StatusOK, "Created")
}

// Delete handles DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	doc, err := h.repos.Document.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int("doc_id", id).Msg("Failed to get document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get document"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if h.enforceRoles {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !user.Role.IsAdmin() && user.Username != doc.Author {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the author or an admin may delete"})
			return
		}
	}

	if _, err := h.repos.Document.Delete(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Int("doc_id", id).Msg("Failed to delete document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	h.audit(c.Request.Context(), actorName(c, ""), models.ActionDeleteDoc, fmt.Sprintf("ID: %d", id))

	c.JSON(http.StatusOK, "Deleted")
}

// ListComments handles GET /api/comments/:id
func (h *DocumentHandler) ListComments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	comments, err := h.repos.Comment.ListByDocument(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int("doc_id", id).Msg("Failed to list comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment handles POST /api/comments
func (h *DocumentHandler) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	if user := currentUser(c); user != nil {
		req.Username = user.Username
	}
	if errs := validation.ValidateComment(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.Error(), "details": errs})
		return
	}

	doc, err := h.repos.Document.GetByID(c.Request.Context(), req.DocID)
	if err != nil {
		h.log.Error().Err(err).Int("doc_id", req.DocID).Msg("Failed to get document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get document"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	comment := &models.Comment{DocID: req.DocID, AdminName: req.Username, Text: req.Text}
	if err := h.repos.Comment.Create(c.Request.Context(), comment); err != nil {
		h.log.Error().Err(err).Msg("Failed to create comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	h.audit(c.Request.Context(), req.Username, models.ActionComment, fmt.Sprintf("Doc: %d", req.DocID))

	c.JSON(http.StatusOK, "Commented")
}

// pathID parses the :id parameter, answering 400 when it is not a number
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}
