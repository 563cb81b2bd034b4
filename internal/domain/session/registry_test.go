package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/domain/analytics"
	"github.com/nuvella/storefront-api/internal/domain/assistant"
	"github.com/nuvella/storefront-api/internal/domain/cart"
	"github.com/nuvella/storefront-api/internal/domain/confirm"
	"github.com/nuvella/storefront-api/internal/infrastructure/storage"
	"github.com/nuvella/storefront-api/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	session string
	kind    string
	payload any
}

type recordingSink struct {
	mu       sync.Mutex
	attached bool
	events   []published
}

func (r *recordingSink) Publish(sessionID, kind string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{session: sessionID, kind: kind, payload: payload})
}

func (r *recordingSink) Attached(string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attached
}

func (r *recordingSink) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.kind
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Chat:    config.ChatConfig{Enabled: true, Provider: config.ProviderStatic, WhatsAppNumber: "0812-3456-7890", ClientTimeout: time.Second},
		Storage: config.StorageConfig{Driver: config.DriverMemory, PersistenceEnabled: true},
		Store:   config.DefaultStoreProfile("0812-3456-7890"),
	}
}

func newTestRegistry(t *testing.T, sink Sink, idle time.Duration) (*Registry, storage.Store, *analytics.MemoryStore) {
	t.Helper()
	cfg := testConfig()
	kv := storage.NewMemory()
	events := analytics.NewMemoryStore()
	tracker := analytics.NewService(events, logger.Discard())
	responder := assistant.NewService(cfg, nil, logger.Discard())
	factory := NewFactory(cfg, kv, tracker, responder, sink, logger.Discard())
	return NewRegistry(factory, idle), kv, events
}

func TestGetCreatesOncePerID(t *testing.T) {
	reg, _, events := newTestRegistry(t, nil, time.Hour)
	ctx := context.Background()

	a := reg.Get(ctx, "s1", "")
	b := reg.Get(ctx, "s1", "")
	assert.Same(t, a, b)
	assert.Equal(t, "s1", a.Owner())
	assert.Equal(t, 1, reg.Len())

	count, err := events.Count(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "chat_initialized is tracked once")
}

// slowStore blocks every Get once armed, until released
type slowStore struct {
	*storage.Memory
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (s *slowStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.armed.Load() {
		s.entered <- struct{}{}
		<-s.release
	}
	return s.Memory.Get(ctx, key)
}

func TestGetDoesNotBlockOnCartLoad(t *testing.T) {
	cfg := testConfig()
	kv := &slowStore{Memory: storage.NewMemory(), entered: make(chan struct{}, 1), release: make(chan struct{})}
	responder := assistant.NewService(cfg, nil, logger.Discard())
	factory := NewFactory(cfg, kv, analytics.NewService(analytics.NewMemoryStore(), logger.Discard()), responder, nil, logger.Discard())
	reg := NewRegistry(factory, time.Hour)
	ctx := context.Background()

	existing := reg.Get(ctx, "existing", "")

	kv.armed.Store(true)
	created := make(chan *Session)
	go func() { created <- reg.Get(ctx, "new", "") }()
	<-kv.entered

	got := make(chan *Session)
	go func() { got <- reg.Get(ctx, "existing", "") }()

	select {
	case s := <-got:
		assert.Same(t, existing, s)
	case <-time.After(time.Second):
		t.Fatal("Get of an existing session waited for another session's cart load")
	}

	kv.armed.Store(false)
	close(kv.release)
	s := <-created
	assert.Equal(t, "new", s.ID)
	assert.Equal(t, 2, reg.Len())
}

func TestConcurrentGetCreatesOneSession(t *testing.T) {
	reg, _, events := newTestRegistry(t, nil, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	sessions := make([]*Session, 8)
	for i := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sessions[i] = reg.Get(ctx, "s1", "")
		}()
	}
	wg.Wait()

	for _, s := range sessions[1:] {
		assert.Same(t, sessions[0], s)
	}
	count, err := events.Count(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "chat_initialized is tracked once")
}

func TestCartFollowsOwner(t *testing.T) {
	reg, kv, _ := newTestRegistry(t, nil, time.Hour)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, cart.KeyFor("user-1"), `[{"id":"p1","name":"Kemeja","price":150000,"quantity":2}]`))

	s := reg.Get(ctx, "s1", "")
	s.Cart().AddToCart(ctx, cart.Product{ID: "guest-item", Name: "Topi", Price: 50000})
	assert.Equal(t, 1, s.Cart().TotalItems())

	s = reg.Get(ctx, "s1", "user-1")
	assert.Equal(t, "user-1", s.Owner())
	assert.Equal(t, 2, s.Cart().TotalItems())
	_, ok := s.Cart().ItemByID("p1")
	assert.True(t, ok)

	raw, ok, err := kv.Get(ctx, cart.KeyFor("s1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "guest-item")
}

func TestEffectsReachSink(t *testing.T) {
	sink := &recordingSink{attached: true}
	reg, _, events := newTestRegistry(t, sink, time.Hour)
	ctx := context.Background()

	s := reg.Get(ctx, "s1", "")
	s.Cart().AddToCart(ctx, cart.Product{ID: "p1", Name: "Kemeja", Price: 150000})
	s.Cart().ClearCart(ctx)
	s.Chat.OpenChat()

	h, err := s.Confirm.Request(confirm.ConfirmClearCart(1))
	require.NoError(t, err)
	require.NoError(t, s.Confirm.Confirm(h.ID()))

	assert.Equal(t, []string{
		EventCartItemAdded,
		EventToast,
		EventChatMessage,
		EventScrollToBottom,
		EventConfirmationRequested,
		EventConfirmationResolved,
	}, sink.kinds())
	for _, e := range sink.events {
		assert.Equal(t, "s1", e.session)
	}

	byName, err := events.CountByName(ctx, time.Time{})
	require.NoError(t, err)
	names := map[string]int64{}
	for _, c := range byName {
		names[c.Name] = c.Count
	}
	assert.Equal(t, int64(1), names[TrackAddToCart])
	assert.Equal(t, int64(1), names[TrackClearCart])
	assert.Equal(t, int64(1), names["chat_opened"])
}

func TestConversationUsesStaticResponder(t *testing.T) {
	reg, _, _ := newTestRegistry(t, nil, time.Hour)
	s := reg.Get(context.Background(), "s1", "")

	result := s.Conversation.SendMessage(context.Background(), "Berapa lama waktu pengiriman?")
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, assistant.ProviderStatic, result.AIMessage.Provider)
	assert.Contains(t, result.AIMessage.Text, "2-5 hari kerja")
}

func TestSweepDropsIdleSessions(t *testing.T) {
	reg, _, _ := newTestRegistry(t, nil, time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	reg.Get(context.Background(), "old", "")
	now = now.Add(50 * time.Minute)
	reg.Get(context.Background(), "fresh", "")
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, reg.Sweep())
	_, ok := reg.Lookup("old")
	assert.False(t, ok)
	_, ok = reg.Lookup("fresh")
	assert.True(t, ok)
}
