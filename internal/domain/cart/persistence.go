// internal/domain/cart/persistence.go
package cart

import (
	"context"
	"encoding/json"

	"github.com/nuvella/storefront-api/internal/infrastructure/storage"
	"github.com/sirupsen/logrus"
)

// StorageKey is the key the cart snapshot is written under
const StorageKey = "nuvella-cart"

// Persistence mirrors the cart contents somewhere outside the process
type Persistence interface {
	Save(ctx context.Context, items []LineItem)
	Load(ctx context.Context) []LineItem
}

// LocalStorage writes the whole line-item list as one JSON array under a single key.
// Failures never reach the cart: saves are logged, loads fall back to an empty cart.
type LocalStorage struct {
	kv        storage.Store
	key       string
	available bool
	log       logrus.FieldLogger
}

// NewLocalStorage creates the adapter. available=false turns Save and Load into no-ops.
func NewLocalStorage(kv storage.Store, key string, available bool, log logrus.FieldLogger) *LocalStorage {
	return &LocalStorage{
		kv:        kv,
		key:       key,
		available: available && kv != nil,
		log:       log.WithField("storage_key", key),
	}
}

// KeyFor namespaces the cart key for one cart owner
func KeyFor(owner string) string {
	if owner == "" {
		return StorageKey
	}
	return StorageKey + ":" + owner
}

// Save overwrites the stored snapshot with items
func (l *LocalStorage) Save(ctx context.Context, items []LineItem) {
	if !l.available {
		return
	}

	if items == nil {
		items = []LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		l.log.WithError(err).Error("failed to encode cart")
		return
	}

	if err := l.kv.Set(ctx, l.key, string(data)); err != nil {
		l.log.WithError(err).Warn("failed to persist cart")
	}
}

// Load reads the stored snapshot. Absent or malformed data yields an empty list.
func (l *LocalStorage) Load(ctx context.Context) []LineItem {
	if !l.available {
		return []LineItem{}
	}

	raw, ok, err := l.kv.Get(ctx, l.key)
	if err != nil {
		l.log.WithError(err).Warn("failed to read stored cart")
		return []LineItem{}
	}
	if !ok || raw == "" {
		return []LineItem{}
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		l.log.WithError(err).Warn("discarding malformed stored cart")
		return []LineItem{}
	}
	if items == nil {
		items = []LineItem{}
	}

	return items
}

// Discard is a Persistence that keeps nothing
type Discard struct{}

// Save does nothing
func (Discard) Save(context.Context, []LineItem) {}

// Load returns an empty cart
func (Discard) Load(context.Context) []LineItem { return []LineItem{} }
