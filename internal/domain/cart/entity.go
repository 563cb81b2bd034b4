// internal/domain/cart/entity.go
package cart

// DefaultStore is the seller name used when a product does not carry one
const DefaultStore = "NUVELLA STORE"

// Product is what the storefront sends when a shopper adds something to the cart
type Product struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" binding:"min=0"`
	Image    string  `json:"image"`
	Variant  string  `json:"variant"`
	Quantity int     `json:"quantity"`
	Store    string  `json:"store"`
}

// LineItem is one product entry in the cart. There is at most one line item per product id.
type LineItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image"`
	Variant    string  `json:"variant"`
	Quantity   int     `json:"quantity"`
	Selected   bool    `json:"selected"`
	Store      string  `json:"store"`
	InWishlist bool    `json:"inWishlist"`
}

// Totals represents the values derived from the cart contents
type Totals struct {
	TotalItems     int     `json:"totalItems"`     // Sum of all quantities
	TotalPrice     float64 `json:"totalPrice"`     // Sum of price x quantity
	CartItemsCount int     `json:"cartItemsCount"` // Number of distinct line items
}

// Snapshot is a read-only copy of the cart and its UI state
type Snapshot struct {
	Items            []LineItem `json:"items"`
	Totals           Totals     `json:"totals"`
	IsOpen           bool       `json:"isOpen"`
	ShowNotification bool       `json:"showNotification"`
	LastAddedItem    *LineItem  `json:"lastAddedItem"`
}

// calculateTotals derives the cart totals from its line items
func calculateTotals(items []LineItem) Totals {
	var totals Totals

	totals.CartItemsCount = len(items)

	for _, item := range items {
		totals.TotalItems += item.Quantity
		totals.TotalPrice += item.Price * float64(item.Quantity)
	}

	return totals
}
