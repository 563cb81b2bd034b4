// internal/interfaces/http/handlers/assistant.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/domain/assistant"
	"github.com/sirupsen/logrus"
)

// AssistantHandler serves the AI proxy route. It speaks the bare envelope
// rather than the message/data wrapper so any chat client can call it.
type AssistantHandler struct {
	service *assistant.Service
	log     logrus.FieldLogger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(service *assistant.Service, log logrus.FieldLogger) *AssistantHandler {
	return &AssistantHandler{service: service, log: log}
}

// Ask handles POST /api/chat/free-ai. It always answers 200; an unreadable
// body gets the canned fallback like any other failure.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req assistant.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).Warn("Unreadable chat request")
		c.JSON(http.StatusOK, assistant.Envelope{
			Success:  false,
			Message:  h.service.Fallback().Reply(""),
			Provider: assistant.ProviderFallback,
			Error:    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.service.Handle(c.Request.Context(), req))
}

// Status handles GET /api/chat/status
func (h *AssistantHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status(c.Request.Context()))
}
