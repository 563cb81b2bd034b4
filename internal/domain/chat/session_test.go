package chat

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nuvella/storefront-api/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackedEvent struct {
	name string
	data map[string]any
}

type recordingTracker struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (r *recordingTracker) TrackChatEvent(name string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, trackedEvent{name: name, data: data})
}

func (r *recordingTracker) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.name
	}
	return out
}

type recordingUI struct {
	mu       sync.Mutex
	attached bool
	added    []Message
	scrolls  int
}

func (r *recordingUI) Attached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attached
}

func (r *recordingUI) MessageAdded(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, msg)
}

func (r *recordingUI) ScrollToBottom() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrolls++
}

func newTestSession(ui UI, tracker Tracker) *Session {
	return NewSession(Options{Enabled: true, Provider: "ollama", AIEnabled: true}, tracker, ui, logger.Discard())
}

func TestAddMessageTrimsAndRejectsEmpty(t *testing.T) {
	s := newTestSession(nil, nil)

	assert.Nil(t, s.AddMessage("", true, Metadata{}))
	assert.Nil(t, s.AddMessage("   \n\t", true, Metadata{}))

	msg := s.AddMessage("  halo  ", true, Metadata{})
	require.NotNil(t, msg)
	assert.Equal(t, "halo", msg.Text)
	assert.True(t, msg.IsUser)
	assert.Equal(t, "ollama", msg.Provider)
	assert.True(t, strings.HasPrefix(msg.ID, "msg_"))
	assert.Len(t, s.Messages(), 1)
}

func TestTextFromRejectsNonStrings(t *testing.T) {
	_, ok := TextFrom(42)
	assert.False(t, ok)
	_, ok = TextFrom(nil)
	assert.False(t, ok)

	text, ok := TextFrom("halo")
	assert.True(t, ok)
	assert.Equal(t, "halo", text)
}

func TestUnreadCountsOnlyAssistantMessagesWhileClosed(t *testing.T) {
	s := newTestSession(nil, nil)

	s.AddMessage("pertanyaan", true, Metadata{})
	s.AddMessage("jawaban 1", false, Metadata{})
	s.AddMessage("jawaban 2", false, Metadata{})
	assert.Equal(t, 2, s.State().UnreadCount)

	s.OpenChat()
	assert.Equal(t, 0, s.State().UnreadCount)

	s.AddMessage("jawaban 3", false, Metadata{})
	assert.Equal(t, 0, s.State().UnreadCount)

	s.CloseChat()
	s.AddMessage("jawaban 4", false, Metadata{})
	assert.Equal(t, 1, s.State().UnreadCount)

	s.ClearMessages()
	assert.Equal(t, 0, s.State().UnreadCount)
	assert.Empty(t, s.Messages())
}

func TestOpenChatSeedsWelcomeOnce(t *testing.T) {
	tracker := &recordingTracker{}
	s := newTestSession(nil, tracker)

	s.OpenChat()
	s.CloseChat()
	s.OpenChat()

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultWelcome, msgs[0].Text)
	assert.Equal(t, TypeWelcome, msgs[0].Type)
	assert.False(t, msgs[0].IsUser)
	assert.Equal(t, []string{EventOpened, EventClosed, EventOpened}, tracker.names())
	assert.Equal(t, "chat", tracker.events[0].data["event_category"])
}

func TestToggleAndDisable(t *testing.T) {
	s := newTestSession(nil, nil)

	s.ToggleChat()
	assert.True(t, s.State().IsOpen)
	s.ToggleChat()
	assert.False(t, s.State().IsOpen)

	s.OpenChat()
	s.SetEnabled(false)
	state := s.State()
	assert.False(t, state.IsEnabled)
	assert.False(t, state.IsOpen)
}

func TestInitializeTracksOnlyWhenEnabled(t *testing.T) {
	tracker := &recordingTracker{}
	s := NewSession(Options{Enabled: false}, tracker, nil, logger.Discard())
	s.Initialize()
	assert.Empty(t, tracker.names())

	s.SetEnabled(true)
	s.Initialize()
	assert.Equal(t, []string{EventInitialized}, tracker.names())
}

func TestScrollOnlyWhenUIAttached(t *testing.T) {
	ui := &recordingUI{}
	s := newTestSession(ui, nil)

	s.AddMessage("satu", true, Metadata{})
	assert.Equal(t, 0, ui.scrolls)
	assert.Len(t, ui.added, 1)

	ui.attached = true
	s.AddMessage("dua", true, Metadata{})
	assert.Equal(t, 1, ui.scrolls)
	assert.Len(t, ui.added, 2)
}

func TestRecent(t *testing.T) {
	s := newTestSession(nil, nil)
	for _, text := range []string{"a", "b", "c"} {
		s.AddMessage(text, true, Metadata{})
	}

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].Text)
	assert.Equal(t, "c", recent[1].Text)
	assert.Len(t, s.Recent(10), 3)
}

func TestTimestampFormat(t *testing.T) {
	s := newTestSession(nil, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 7, 5, 1, 250_000_000, time.UTC) }

	msg := s.AddMessage("halo", true, Metadata{})
	require.NotNil(t, msg)
	assert.Equal(t, "2024-03-09T07:05:01.250Z", msg.Timestamp)
	assert.True(t, strings.HasPrefix(msg.ID, "msg_1709967901250_"))
}

func TestWhatsAppURL(t *testing.T) {
	assert.Equal(t, "https://wa.me/081234567890", WhatsAppURL("0812-3456-7890", ""))
	assert.Equal(t, "https://wa.me/081234567890?text=Halo%20kak%2C%20saya%20mau%20tanya%21",
		WhatsAppURL("0812-3456-7890", "Halo kak, saya mau tanya!"))
}
