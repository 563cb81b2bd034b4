// internal/domain/cart/store.go
package cart

import (
	"context"
	"sync"
)

// Toast messages shown after cart mutations
const (
	MessageItemRemoved = "Produk dihapus dari keranjang!"
	MessageCartCleared = "Keranjang dikosongkan!"
)

// Notifier receives the UI side effects of cart mutations. Calls are fire-and-forget.
type Notifier interface {
	CartItemAdded(item LineItem)
	Toast(message string)
}

// Store is the cart state for one shopper. It is safe for concurrent use; mutations
// are applied one at a time, in arrival order.
type Store struct {
	mu sync.Mutex

	items            []LineItem
	isOpen           bool
	showNotification bool
	lastAddedItem    *LineItem
	defaultStore     string

	persistence Persistence
	notifier    Notifier
}

// Option configures a Store
type Option func(*Store)

// WithDefaultStore sets the seller name used for products that carry none
func WithDefaultStore(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.defaultStore = name
		}
	}
}

// NewStore creates a cart with the given initial items
func NewStore(initial []LineItem, persistence Persistence, notifier Notifier, opts ...Option) *Store {
	if persistence == nil {
		persistence = Discard{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	s := &Store{
		items:        append([]LineItem(nil), initial...),
		defaultStore: DefaultStore,
		persistence:  persistence,
		notifier:     notifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load creates a cart populated from persistence
func Load(ctx context.Context, persistence Persistence, notifier Notifier, opts ...Option) *Store {
	if persistence == nil {
		persistence = Discard{}
	}
	return NewStore(persistence.Load(ctx), persistence, notifier, opts...)
}

// AddToCart adds product to the cart. An existing line item with the same id has its
// quantity increased instead of being duplicated.
func (s *Store) AddToCart(ctx context.Context, product Product) {
	quantity := product.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()

	var added LineItem
	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
		// Show only the added quantity
		added = s.items[i]
		added.Quantity = quantity
	} else {
		storeName := product.Store
		if storeName == "" {
			storeName = s.defaultStore
		}
		added = LineItem{
			ID:         product.ID,
			Name:       product.Name,
			Price:      product.Price,
			Image:      product.Image,
			Variant:    product.Variant,
			Quantity:   quantity,
			Selected:   false,
			Store:      storeName,
			InWishlist: false,
		}
		s.items = append(s.items, added)
	}

	s.lastAddedItem = &added
	s.showNotification = true
	s.persist(ctx)

	s.mu.Unlock()

	s.notifier.CartItemAdded(added)
}

// RemoveFromCart deletes the line item with id. Unknown ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, id string) {
	s.mu.Lock()
	removed := s.removeLocked(ctx, id)
	s.mu.Unlock()

	if removed {
		s.notifier.Toast(MessageItemRemoved)
	}
}

// UpdateQuantity sets the quantity of a line item; quantity <= 0 removes it.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}

	if quantity <= 0 {
		s.removeLocked(ctx, id)
		s.mu.Unlock()
		s.notifier.Toast(MessageItemRemoved)
		return
	}

	s.items[i].Quantity = quantity
	s.persist(ctx)
	s.mu.Unlock()
}

// ClearCart removes every line item
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.items = []LineItem{}
	s.persist(ctx)
	s.mu.Unlock()

	s.notifier.Toast(MessageCartCleared)
}

// ToggleDrawer opens or closes the cart drawer
func (s *Store) ToggleDrawer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = !s.isOpen
	return s.isOpen
}

// HideNotification dismisses the add-to-cart popup
func (s *Store) HideNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showNotification = false
	s.lastAddedItem = nil
}

// ItemByID returns a copy of the line item with id
func (s *Store) ItemByID(id string) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return LineItem{}, false
}

// Items returns a copy of the line items in insertion order
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Totals computes the derived cart values
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calculateTotals(s.items)
}

// TotalItems is the sum of all quantities
func (s *Store) TotalItems() int {
	return s.Totals().TotalItems
}

// TotalPrice is the sum of price x quantity
func (s *Store) TotalPrice() float64 {
	return s.Totals().TotalPrice
}

// CartItemsCount is the number of distinct line items
func (s *Store) CartItemsCount() int {
	return s.Totals().CartItemsCount
}

// Snapshot returns a consistent copy of the cart and its UI state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last *LineItem
	if s.lastAddedItem != nil {
		item := *s.lastAddedItem
		last = &item
	}

	return Snapshot{
		Items:            s.copyItems(),
		Totals:           calculateTotals(s.items),
		IsOpen:           s.isOpen,
		ShowNotification: s.showNotification,
		LastAddedItem:    last,
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(ctx context.Context, id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persist(ctx)
	return true
}

func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) persist(ctx context.Context) {
	s.persistence.Save(ctx, s.copyItems())
}

// NopNotifier drops all cart side effects
type NopNotifier struct{}

// CartItemAdded does nothing
func (NopNotifier) CartItemAdded(LineItem) {}

// Toast does nothing
func (NopNotifier) Toast(string) {}
