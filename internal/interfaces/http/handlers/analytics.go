// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/domain/analytics"
)

// AnalyticsHandler handles analytics endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetEvents handles GET /admin/analytics/events?since=2024-03-01T00:00:00Z.
// Without since the last 30 days are summarized.
func (h *AnalyticsHandler) GetEvents(c *gin.Context) {
	since := time.Now().UTC().AddDate(0, 0, -30)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid since parameter, expected RFC3339",
			})
			return
		}
		since = parsed
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve analytics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Analytics retrieved successfully",
		"data":    summary,
	})
}
