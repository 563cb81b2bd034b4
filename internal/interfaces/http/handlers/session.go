// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/domain/session"
	"github.com/nuvella/storefront-api/internal/interfaces/http/middleware"
)

// currentSession returns the session attached by the session middleware,
// answering 500 when the route was mounted without it
func currentSession(c *gin.Context) (*session.Session, bool) {
	s, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Session not available",
		})
		return nil, false
	}
	return s, true
}
