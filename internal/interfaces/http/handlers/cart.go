// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/domain/cart"
)

// CartHandler handles cart endpoints. The cart itself lives in the session.
type CartHandler struct{}

// NewCartHandler creates a new cart handler
func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

// UpdateQuantityRequest is the body of PUT /cart/items/:id
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    s.Cart().Snapshot(),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	var product cart.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := s.Cart()
	store.AddToCart(c.Request.Context(), product)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart successfully",
		"data":    store.Snapshot(),
	})
}

// UpdateItem handles PUT /cart/items/:id. A quantity of zero or less removes the
// item; an unknown id leaves the cart unchanged.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := s.Cart()
	store.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    store.Snapshot(),
	})
}

// RemoveItem handles DELETE /cart/items/:id. Unknown ids are not an error.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	store := s.Cart()
	store.RemoveFromCart(c.Request.Context(), c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    store.Snapshot(),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	store := s.Cart()
	store.ClearCart(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    store.Snapshot(),
	})
}

// ToggleDrawer handles POST /cart/drawer/toggle
func (h *CartHandler) ToggleDrawer(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	isOpen := s.Cart().ToggleDrawer()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart drawer toggled",
		"data":    gin.H{"isOpen": isOpen},
	})
}

// HideNotification handles DELETE /cart/notification
func (h *CartHandler) HideNotification(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}

	store := s.Cart()
	store.HideNotification()

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification dismissed",
		"data":    store.Snapshot(),
	})
}
