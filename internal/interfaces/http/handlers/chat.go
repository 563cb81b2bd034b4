// internal/interfaces/http/handlers/chat.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/domain/chat"
)

// ChatHandler handles the chat widget endpoints
type ChatHandler struct{}

// NewChatHandler creates a new chat handler
func NewChatHandler() *ChatHandler {
	return &ChatHandler{}
}

// SendMessageRequest is the body of POST /chat/messages. Message is decoded
// loosely so non-string values can be rejected explicitly.
type SendMessageRequest struct {
	Message any `json:"message"`
}

// SetEnabledRequest is the body of PUT /chat/enabled
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// GetChat handles GET /chat
func (h *ChatHandler) GetChat(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Chat retrieved successfully",
		"data": gin.H{
			"state":    s.Chat.State(),
			"messages": s.Chat.Messages(),
		},
	})
}

// OpenChat handles POST /chat/open
func (h *ChatHandler) OpenChat(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	s.Chat.OpenChat()
	h.respondState(c, s.Chat)
}

// CloseChat handles POST /chat/close
func (h *ChatHandler) CloseChat(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	s.Chat.CloseChat()
	h.respondState(c, s.Chat)
}

// ToggleChat handles POST /chat/toggle
func (h *ChatHandler) ToggleChat(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	s.Chat.ToggleChat()
	h.respondState(c, s.Chat)
}

// SetEnabled handles PUT /chat/enabled. Disabling also closes the widget.
func (h *ChatHandler) SetEnabled(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	var req SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	s.Chat.SetEnabled(*req.Enabled)
	h.respondState(c, s.Chat)
}

// SendMessage handles POST /chat/messages. The reply is always 200 once the
// text is accepted; assistant failures come back as an apology message.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	if !s.Chat.State().IsEnabled {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Chat is disabled",
		})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	text, valid := chat.TextFrom(req.Message)
	if !valid || strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Message text is required",
		})
		return
	}

	result := s.Conversation.SendMessage(c.Request.Context(), text)
	if result == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Message text is required",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message sent",
		"data":    result,
	})
}

// ClearMessages handles DELETE /chat/messages
func (h *ChatHandler) ClearMessages(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	s.Chat.ClearMessages()
	h.respondState(c, s.Chat)
}

// GetQuickActions handles GET /chat/quick-actions
func (h *ChatHandler) GetQuickActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Quick actions retrieved successfully",
		"data":    chat.QuickActions(),
	})
}

// UseQuickAction handles POST /chat/quick-actions/:id
func (h *ChatHandler) UseQuickAction(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid quick action ID",
		})
		return
	}

	if _, found := chat.FindQuickAction(id); !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Quick action not found",
		})
		return
	}

	result := s.Conversation.HandleQuickAction(c.Request.Context(), id)

	c.JSON(http.StatusOK, gin.H{
		"message": "Quick action sent",
		"data":    result,
	})
}

// GetWhatsAppLink handles GET /chat/whatsapp?message=
func (h *ChatHandler) GetWhatsAppLink(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "WhatsApp link generated",
		"data":    gin.H{"url": s.Conversation.WhatsAppURL(c.Query("message"))},
	})
}

func (h *ChatHandler) respondState(c *gin.Context, session *chat.Session) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Chat updated",
		"data": gin.H{
			"state":    session.State(),
			"messages": session.Messages(),
		},
	})
}
