// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/domain/session"
)

// Context keys set by the session middleware
const (
	ContextSessionID = "session_id"
	ContextSession   = "session"
)

// Session resolves the browser session from its cookie, issuing a new one when
// absent, and attaches the live session state to the context. It must run after
// the optional auth middleware so signed-in shoppers get their own cart.
func Session(cfg *config.Config, registry *session.Registry) gin.HandlerFunc {
	name := cfg.Session.CookieName
	maxAge := int(cfg.Session.IdleTimeout.Seconds())
	if maxAge <= 0 {
		maxAge = 86400
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(name)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
		}

		// Refresh the cookie so it lives as long as the session does
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(name, sessionID, maxAge, "/", "", cfg.IsProduction(), true)

		owner, _ := GetUserIDFromContext(c)
		s := registry.Get(c.Request.Context(), sessionID, owner)

		c.Set(ContextSessionID, sessionID)
		c.Set(ContextSession, s)
		c.Next()
	}
}

// GetSessionFromContext returns the session attached by the session middleware
func GetSessionFromContext(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(ContextSession)
	if !exists {
		return nil, false
	}
	s, ok := value.(*session.Session)
	return s, ok
}
