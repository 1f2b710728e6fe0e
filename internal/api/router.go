package api

import (
	"net/http"
	"time"

	"github.com/docvault-console/internal/config"
	"github.com/docvault-console/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates the gin router of the stub document API
func NewRouter(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(bodyLimitMiddleware(cfg.Server.MaxBodyBytes))

	tokens := NewTokenRegistry(cfg.Server.TokenTTL)
	auth := authMiddleware(tokens, repos.User)
	admin := requireAdmin(cfg.Server.EnforceRoles)

	// Handlers
	authHandler := NewAuthHandler(repos, tokens, log)
	docHandler := NewDocumentHandler(repos, cfg.Server.EnforceRoles, log)
	adminHandler := NewAdminHandler(repos, cfg.Server.EnforceRoles, log)

	// Health check
	router.GET("/health", healthCheck)

	// Public routes ignore any bearer token
	public := router.Group("/api")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	apiGroup := router.Group("/api", auth)
	{
		apiGroup.GET("/documents", docHandler.List)
		apiGroup.POST("/documents", docHandler.Create)
		apiGroup.DELETE("/documents/:id", docHandler.Delete)

		apiGroup.GET("/comments/:id", docHandler.ListComments)
		apiGroup.POST("/comments", admin, docHandler.CreateComment)

		apiGroup.GET("/stats", adminHandler.Stats)
		apiGroup.GET("/audit", admin, adminHandler.ListAudit)
		apiGroup.GET("/users", admin, adminHandler.ListUsers)
		apiGroup.PUT("/users/:id", admin, adminHandler.UpdateUser)
		apiGroup.DELETE("/users/:id", admin, adminHandler.DeleteUser)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "docvault-stub-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// bodyLimitMiddleware caps request bodies
func bodyLimitMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
