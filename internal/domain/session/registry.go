// internal/domain/session/registry.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/domain/analytics"
	"github.com/nuvella/storefront-api/internal/domain/cart"
	"github.com/nuvella/storefront-api/internal/domain/chat"
	"github.com/nuvella/storefront-api/internal/domain/confirm"
	"github.com/nuvella/storefront-api/internal/infrastructure/storage"
	"github.com/sirupsen/logrus"
)

// Session bundles the state objects of one browser session
type Session struct {
	ID           string
	Chat         *chat.Session
	Conversation *chat.Conversation
	Confirm      *confirm.Broker

	mu       sync.Mutex
	owner    string
	cart     *cart.Store
	lastSeen time.Time
}

// Cart returns the cart of the current owner
func (s *Session) Cart() *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Owner returns the id the cart is persisted under
func (s *Session) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Factory builds the state objects for a new session
type Factory struct {
	cfg       *config.Config
	kv        storage.Store
	analytics *analytics.Service
	responder chat.Responder
	sink      Sink
	log       logrus.FieldLogger
}

// NewFactory creates a session factory
func NewFactory(cfg *config.Config, kv storage.Store, tracker *analytics.Service, responder chat.Responder, sink Sink, log logrus.FieldLogger) *Factory {
	if sink == nil {
		sink = nopSink{}
	}
	if tracker == nil {
		tracker = analytics.NewService(nil, log)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Factory{cfg: cfg, kv: kv, analytics: tracker, responder: responder, sink: sink, log: log}
}

// New builds a session whose cart belongs to owner. The chat is not yet
// initialized; the registry does that once the session is stored.
func (f *Factory) New(ctx context.Context, id, owner string) *Session {
	log := f.log.WithField("session_id", id)
	tracker := f.analytics.ForSession(id, f.cfg.Chat.Provider)

	chatSession := chat.NewSession(chat.Options{
		Enabled:   f.cfg.Chat.Enabled,
		Provider:  f.cfg.Chat.Provider,
		AIEnabled: f.cfg.AIEnabled(),
		Welcome:   f.cfg.Store.Welcome,
	}, tracker, chatEffects{id: id, sink: f.sink}, log)

	return &Session{
		ID:           id,
		Chat:         chatSession,
		Conversation: chat.NewConversation(chatSession, f.responder, f.cfg.Chat.WhatsAppNumber, f.cfg.Chat.ClientTimeout, log),
		Confirm:      confirm.NewBroker(confirmEffects{id: id, sink: f.sink}),
		owner:        owner,
		cart:         f.loadCart(ctx, id, owner, tracker, log),
	}
}

func (f *Factory) loadCart(ctx context.Context, id, owner string, tracker *analytics.SessionTracker, log logrus.FieldLogger) *cart.Store {
	var persistence cart.Persistence = cart.Discard{}
	if f.cfg.Storage.PersistenceEnabled && f.kv != nil {
		persistence = cart.NewLocalStorage(f.kv, cart.KeyFor(owner), f.kv.Available(), log)
	}

	return cart.Load(ctx, persistence, cartEffects{id: id, sink: f.sink, tracker: tracker},
		cart.WithDefaultStore(f.cfg.Store.DefaultStore))
}

// Registry maps session ids to live sessions. Safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  *Factory
	idle     time.Duration
	now      func() time.Time
}

// NewRegistry creates an empty registry; idle 0 disables sweeping
func NewRegistry(factory *Factory, idle time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		idle:     idle,
		now:      time.Now,
	}
}

// Get returns the session for id, creating it on first use. When the cart owner
// changes (the shopper signed in or out) the cart is reloaded for the new owner.
// Storage is never touched while the registry lock is held.
func (r *Registry) Get(ctx context.Context, id, owner string) *Session {
	if owner == "" {
		owner = id
	}

	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		created := r.factory.New(ctx, id, owner)

		r.mu.Lock()
		s, ok = r.sessions[id]
		if !ok {
			s = created
			r.sessions[id] = s
		}
		r.mu.Unlock()

		if !ok {
			s.Chat.Initialize()
		}
	}

	if s.Owner() != owner {
		tracker := r.factory.analytics.ForSession(id, r.factory.cfg.Chat.Provider)
		store := r.factory.loadCart(ctx, id, owner, tracker, r.factory.log.WithField("session_id", id))

		s.mu.Lock()
		if s.owner != owner {
			s.owner = owner
			s.cart = store
		}
		s.mu.Unlock()
	}

	s.touch(r.now())
	return s
}

// Lookup returns an existing session without creating one
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the configured timeout and
// returns how many were removed
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions periodically until ctx is cancelled
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	if r.idle <= 0 || every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.factory.log.WithField("removed", n).Debug("Swept idle sessions")
			}
		}
	}
}
