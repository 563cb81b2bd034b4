// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/interfaces/http/middleware"
	"github.com/nuvella/storefront-api/internal/interfaces/http/routes"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Path prefixes with special middleware treatment
const (
	chatProxyPrefix = "/api/chat"
	eventsPath      = "/api/v1/events"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	deps        routes.Dependencies
	gin         *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
	startedAt   time.Time
}

// NewServer creates a new HTTP server instance. db and redisClient may be nil
// when the configured drivers do not need them.
func NewServer(cfg *config.Config, deps routes.Dependencies, db *gorm.DB, redisClient *redis.Client) *Server {
	return &Server{
		config:      cfg,
		deps:        deps,
		db:          db,
		redisClient: redisClient,
		startedAt:   time.Now(),
	}
}

// Handler builds the gin engine with all middleware and routes
func (s *Server) Handler() http.Handler {
	if s.gin != nil {
		return s.gin
	}

	// Set Gin mode based on environment
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.gin = gin.New()
	if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
		log.Printf("⚠️  Invalid trusted proxies: %v", err)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	log.Printf("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	log.Printf("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)
	log.Printf("🤖 Chat proxy: http://localhost:%s%s/free-ai", s.config.Server.Port, chatProxyPrefix)
	log.Printf("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	log.Println("🛑 Shutting down HTTP server...")

	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	log.Println("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Custom logger middleware
	s.gin.Use(middleware.Logger(s.deps.Log))

	// Request ID middleware
	s.gin.Use(middleware.RequestID())

	// CORS middleware; the chat proxy is callable from any origin
	s.gin.Use(middleware.CORS(s.config, chatProxyPrefix))

	// Security headers middleware
	s.gin.Use(middleware.SecurityHeaders())

	// Rate limiting middleware
	if s.redisClient != nil {
		s.gin.Use(middleware.RateLimit(s.config, s.redisClient, s.deps.Log))
	} else {
		s.gin.Use(middleware.LocalRateLimit(s.config))
	}

	// Request size limit middleware
	s.gin.Use(middleware.RequestSizeLimit(1 << 20)) // 1MB limit

	// Timeout middleware; the event stream is long-lived
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout, eventsPath))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoint (no auth required)
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	// AI proxy routes
	routes.SetupChatProxyRoutes(s.gin.Group(chatProxyPrefix), s.deps)

	// API v1 routes
	routes.SetupRoutes(s.gin.Group("/api/v1"), s.deps)

	// Root endpoint
	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name + " API",
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"chat_proxy":    chatProxyPrefix + "/free-ai",
					"chat_status":   chatProxyPrefix + "/status",
					"cart":          "/api/v1/cart",
					"chat":          "/api/v1/chat",
					"confirmations": "/api/v1/confirmations",
					"events":        eventsPath,
					"auth":          "/api/v1/auth/me",
					"admin":         "/api/v1/admin",
				},
			})
		})
	}
}

// healthCheck handles health check requests. Only the backends that are
// configured are checked.
func (s *Server) healthCheck(c *gin.Context) {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection error",
			})
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database ping failed",
			})
			return
		}
	}

	if s.redisClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "redis ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	sessions := 0
	if s.deps.Sessions != nil {
		sessions = s.deps.Sessions.Len()
	}
	connections := 0
	if s.deps.Hub != nil {
		connections = s.deps.Hub.Connections()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ready",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(s.startedAt).Round(time.Second).String(),
		"sessions":    sessions,
		"connections": connections,
	})
}
