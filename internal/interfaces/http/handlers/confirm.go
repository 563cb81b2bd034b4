// internal/interfaces/http/handlers/confirm.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/domain/confirm"
)

// Confirmation presets accepted by POST /confirmations
const (
	PresetDelete    = "delete"
	PresetClearCart = "clear_cart"
	PresetCheckout  = "checkout"
)

// maxResultWait keeps the long poll under the request timeout
const maxResultWait = 25 * time.Second

// ConfirmationHandler handles the confirmation dialog endpoints
type ConfirmationHandler struct{}

// NewConfirmationHandler creates a new confirmation handler
func NewConfirmationHandler() *ConfirmationHandler {
	return &ConfirmationHandler{}
}

// CreateConfirmationRequest asks for a preset dialog or a custom one.
// Preset parameters left at zero are filled from the session cart.
type CreateConfirmationRequest struct {
	Preset        string           `json:"preset" binding:"omitempty,oneof=delete clear_cart checkout"`
	ItemName      string           `json:"itemName"`
	Count         int              `json:"count" binding:"min=0"`
	SelectedCount int              `json:"selectedCount" binding:"min=0"`
	TotalPrice    float64          `json:"totalPrice" binding:"min=0"`
	Request       *confirm.Request `json:"request"`
}

// CreateConfirmation handles POST /confirmations
func (h *ConfirmationHandler) CreateConfirmation(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	var req CreateConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var dialog confirm.Request
	switch req.Preset {
	case PresetDelete:
		count := req.Count
		if count == 0 {
			count = 1
		}
		dialog = confirm.ConfirmDelete(req.ItemName, count)
	case PresetClearCart:
		count := req.Count
		if count == 0 {
			count = s.Cart().CartItemsCount()
		}
		dialog = confirm.ConfirmClearCart(count)
	case PresetCheckout:
		selected, total := req.SelectedCount, req.TotalPrice
		if selected == 0 {
			totals := s.Cart().Totals()
			selected, total = totals.CartItemsCount, totals.TotalPrice
		}
		dialog = confirm.ConfirmCheckout(selected, total)
	default:
		if req.Request == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Either preset or request is required",
			})
			return
		}
		dialog = *req.Request
	}

	handle, err := s.Confirm.Request(dialog)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Confirmation requested",
		"data":    confirm.Pending{ID: handle.ID(), Request: handle.Request()},
	})
}

// GetCurrent handles GET /confirmations/current
func (h *ConfirmationHandler) GetCurrent(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	pending, found := s.Confirm.Current()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No pending confirmation",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pending confirmation retrieved",
		"data":    pending,
	})
}

// GetResult handles GET /confirmations/:id/result?wait=10s. It blocks until the
// dialog is answered or the wait elapses, in which case it answers 202.
func (h *ConfirmationHandler) GetResult(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	handle, found := s.Confirm.Lookup(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": confirm.ErrUnknownRequest.Error(),
		})
		return
	}

	wait := maxResultWait
	if raw := c.Query("wait"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			wait = min(d, maxResultWait)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
	defer cancel()

	confirmed, err := handle.Wait(ctx)
	if err != nil {
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Confirmation still pending",
			"data":    gin.H{"id": handle.ID(), "resolved": false},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Confirmation resolved",
		"data":    gin.H{"id": handle.ID(), "resolved": true, "confirmed": confirmed},
	})
}

// Confirm handles POST /confirmations/:id/confirm
func (h *ConfirmationHandler) Confirm(c *gin.Context) {
	h.answer(c, (*confirm.Broker).Confirm, true)
}

// Cancel handles POST /confirmations/:id/cancel
func (h *ConfirmationHandler) Cancel(c *gin.Context) {
	h.answer(c, (*confirm.Broker).Cancel, false)
}

// Dismiss handles POST /confirmations/:id/dismiss (backdrop click)
func (h *ConfirmationHandler) Dismiss(c *gin.Context) {
	h.answer(c, (*confirm.Broker).Dismiss, false)
}

func (h *ConfirmationHandler) answer(c *gin.Context, resolve func(*confirm.Broker, string) error, confirmed bool) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := resolve(s.Confirm, id); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, confirm.ErrBackdropDisabled) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Confirmation resolved",
		"data":    gin.H{"id": id, "confirmed": confirmed},
	})
}
