package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/repository"
	"github.com/docvault-console/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// handlerBase carries the collaborators every handler shares
type handlerBase struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// AuthHandler handles registration and login
type AuthHandler struct {
	handlerBase
	tokens *TokenRegistry
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(repos *repository.Repositories, tokens *TokenRegistry, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		handlerBase: handlerBase{repos: repos, log: log.With().Str("handler", "auth").Logger()},
		tokens:      tokens,
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	if errs := validation.ValidateRegister(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.Error(), "details": errs})
		return
	}

	// Accounts whose login mentions "admin" are administrators
	role := models.RoleUser
	if strings.Contains(strings.ToLower(req.Username), "admin") {
		role = models.RoleAdmin
	}

	user := &models.User{Username: req.Username, FullName: req.FullName, Role: role}
	if err := h.repos.User.Create(c.Request.Context(), user, req.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User exists"})
			return
		}
		h.log.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.audit(c.Request.Context(), user.Username, models.ActionRegister, "New user registered")
	h.log.Info().Str("username", user.Username).Str("role", string(role)).Msg("User registered")

	c.JSON(http.StatusOK, "Registered")
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if errs := validation.ValidateLogin(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.Error(), "details": errs})
		return
	}

	user, err := h.repos.User.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to authenticate")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid"})
		return
	}

	token := h.tokens.Issue(user.ID)
	h.audit(c.Request.Context(), user.Username, models.ActionLogin, "Login successful")

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

// bindJSON decodes the request body, answering 400 or 413 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	return true
}
