// internal/domain/session/effects.go
package session

import (
	"github.com/nuvella/storefront-api/internal/domain/analytics"
	"github.com/nuvella/storefront-api/internal/domain/cart"
	"github.com/nuvella/storefront-api/internal/domain/chat"
	"github.com/nuvella/storefront-api/internal/domain/confirm"
)

// Side-effect event kinds pushed to the browser
const (
	EventCartItemAdded         = "cart_item_added"
	EventToast                 = "toast"
	EventChatMessage           = "chat_message"
	EventScrollToBottom        = "scroll_to_bottom"
	EventConfirmationRequested = "confirmation_requested"
	EventConfirmationResolved  = "confirmation_resolved"
)

// Cart analytics event names
const (
	TrackAddToCart      = "add_to_cart"
	TrackRemoveFromCart = "remove_from_cart"
	TrackClearCart      = "clear_cart"
)

// Sink delivers side effects to whatever client is attached to a session
type Sink interface {
	Publish(sessionID, kind string, payload any)
	Attached(sessionID string) bool
}

type nopSink struct{}

func (nopSink) Publish(string, string, any) {}
func (nopSink) Attached(string) bool        { return false }

// cartEffects turns cart notifications into pushed events and analytics
type cartEffects struct {
	id      string
	sink    Sink
	tracker *analytics.SessionTracker
}

func (e cartEffects) CartItemAdded(item cart.LineItem) {
	e.sink.Publish(e.id, EventCartItemAdded, item)
	e.tracker.TrackCartEvent(TrackAddToCart, map[string]any{
		"item_id":  item.ID,
		"quantity": item.Quantity,
		"price":    item.Price,
	})
}

func (e cartEffects) Toast(message string) {
	e.sink.Publish(e.id, EventToast, map[string]string{"message": message})

	switch message {
	case cart.MessageItemRemoved:
		e.tracker.TrackCartEvent(TrackRemoveFromCart, nil)
	case cart.MessageCartCleared:
		e.tracker.TrackCartEvent(TrackClearCart, nil)
	}
}

// chatEffects is the chat UI backed by the sink
type chatEffects struct {
	id   string
	sink Sink
}

func (e chatEffects) Attached() bool {
	return e.sink.Attached(e.id)
}

func (e chatEffects) MessageAdded(msg chat.Message) {
	e.sink.Publish(e.id, EventChatMessage, msg)
}

func (e chatEffects) ScrollToBottom() {
	e.sink.Publish(e.id, EventScrollToBottom, nil)
}

// confirmEffects shows and hides dialogs through the sink
type confirmEffects struct {
	id   string
	sink Sink
}

func (e confirmEffects) ConfirmationRequested(p confirm.Pending) {
	e.sink.Publish(e.id, EventConfirmationRequested, p)
}

func (e confirmEffects) ConfirmationResolved(confirmationID string, confirmed bool) {
	e.sink.Publish(e.id, EventConfirmationResolved, map[string]any{
		"id":        confirmationID,
		"confirmed": confirmed,
	})
}
