// internal/interfaces/http/handlers/events.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/interfaces/http/ws"
	"github.com/sirupsen/logrus"
)

// EventsHandler streams cart, chat and confirmation side effects to the browser
type EventsHandler struct {
	hub *ws.Hub
	log logrus.FieldLogger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *ws.Hub, log logrus.FieldLogger) *EventsHandler {
	return &EventsHandler{hub: hub, log: log}
}

// Stream handles GET /events by upgrading to a websocket bound to the session
func (h *EventsHandler) Stream(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	// The upgrader has already answered the request when this fails
	if err := h.hub.Serve(c.Writer, c.Request, s.ID); err != nil {
		h.log.WithError(err).WithField("session_id", s.ID).Debug("Websocket upgrade failed")
	}
}
