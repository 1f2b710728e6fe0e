package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const userKey = "user"

// TokenRegistry maps bearer tokens to account IDs until they expire
type TokenRegistry struct {
	tokens *cache.Cache
}

// NewTokenRegistry creates a registry whose tokens live for ttl
func NewTokenRegistry(ttl time.Duration) *TokenRegistry {
	return &TokenRegistry{tokens: cache.New(ttl, 10*time.Minute)}
}

// Issue creates a token for the account
func (r *TokenRegistry) Issue(userID int) string {
	token := uuid.New().String()
	r.tokens.SetDefault(token, userID)
	return token
}

// Lookup returns the account ID a token was issued for
func (r *TokenRegistry) Lookup(token string) (int, bool) {
	v, ok := r.tokens.Get(token)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// authMiddleware resolves an optional bearer token to the current account
func authMiddleware(tokens *TokenRegistry, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}

		id, ok := tokens.Lookup(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			c.Abort()
			return
		}
		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil || user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// requireAdmin rejects requests without an admin account when enforce is set
func requireAdmin(enforce bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enforce {
			c.Next()
			return
		}
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !user.Role.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// actorName is the username recorded in the audit log
func actorName(c *gin.Context, fallback string) string {
	if u := currentUser(c); u != nil {
		return u.Username
	}
	if fallback != "" {
		return fallback
	}
	return "unknown"
}

// audit appends an entry, logging but not failing on error
func (h *handlerBase) audit(ctx context.Context, username, action, details string) {
	if err := h.repos.Audit.Append(ctx, username, action, details); err != nil {
		h.log.Warn().Err(err).Str("action", action).Msg("Failed to write audit entry")
	}
}
