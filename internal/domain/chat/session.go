// internal/domain/chat/session.go
package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Analytics event names
const (
	EventInitialized     = "chat_initialized"
	EventOpened          = "chat_opened"
	EventClosed          = "chat_closed"
	EventQuickActionUsed = "quick_action_used"
)

// DefaultWelcome is seeded when the chat is opened with an empty transcript
const DefaultWelcome = "Halo! Selamat datang di Toko Online Nuxt. Ada yang bisa saya bantu? 😊"

// Tracker records chat analytics events
type Tracker interface {
	TrackChatEvent(name string, data map[string]any)
}

// UI receives transcript side effects. Attached reports whether a client is
// currently listening; scrolling is only requested when one is.
type UI interface {
	Attached() bool
	MessageAdded(msg Message)
	ScrollToBottom()
}

// Options configures a Session
type Options struct {
	Enabled   bool
	Provider  string
	AIEnabled bool
	Welcome   string
}

// Session holds the transcript and widget state for one shopper. Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	messages    []Message
	isEnabled   bool
	isOpen      bool
	unreadCount int
	isTyping    bool
	provider    string
	aiEnabled   bool
	welcome     string

	tracker Tracker
	ui      UI
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewSession creates an empty, closed chat session
func NewSession(opts Options, tracker Tracker, ui UI, log logrus.FieldLogger) *Session {
	if tracker == nil {
		tracker = nopTracker{}
	}
	if ui == nil {
		ui = nopUI{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Provider == "" {
		opts.Provider = "ollama"
	}
	if opts.Welcome == "" {
		opts.Welcome = DefaultWelcome
	}

	return &Session{
		messages:  []Message{},
		isEnabled: opts.Enabled,
		provider:  opts.Provider,
		aiEnabled: opts.AIEnabled,
		welcome:   opts.Welcome,
		tracker:   tracker,
		ui:        ui,
		log:       log,
		now:       time.Now,
	}
}

// TextFrom converts a decoded JSON value into message text. Anything that is not
// a string is rejected.
func TextFrom(v any) (string, bool) {
	text, ok := v.(string)
	return text, ok
}

// AddMessage appends a message and returns it, or nil when text is empty.
// A non-user message arriving while the chat is closed counts as unread.
func (s *Session) AddMessage(text string, isUser bool, meta Metadata) *Message {
	text = strings.TrimSpace(text)
	if text == "" {
		s.log.Warn("Invalid message text provided to AddMessage")
		return nil
	}

	s.mu.Lock()
	msg := s.appendLocked(text, isUser, meta)
	s.mu.Unlock()

	s.afterAppend(msg)
	return &msg
}

func (s *Session) appendLocked(text string, isUser bool, meta Metadata) Message {
	now := s.now()

	provider := meta.Provider
	if provider == "" {
		provider = s.provider
	}

	msg := Message{
		ID:        newMessageID(now),
		Text:      text,
		IsUser:    isUser,
		Timestamp: formatTimestamp(now),
		Provider:  provider,
		Type:      meta.Type,
		Success:   meta.Success,
	}

	s.messages = append(s.messages, msg)

	if !s.isOpen && !isUser {
		s.unreadCount++
	}

	return msg
}

func (s *Session) afterAppend(msg Message) {
	s.ui.MessageAdded(msg)
	if s.ui.Attached() {
		s.ui.ScrollToBottom()
	}
}

// ClearMessages empties the transcript and resets the unread counter
func (s *Session) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []Message{}
	s.unreadCount = 0
}

// OpenChat opens the widget, marks everything read and seeds the welcome message
func (s *Session) OpenChat() {
	s.mu.Lock()
	s.isOpen = true
	s.unreadCount = 0

	var welcome *Message
	if len(s.messages) == 0 {
		msg := s.appendLocked(s.welcome, false, Metadata{Type: TypeWelcome})
		welcome = &msg
	}
	s.mu.Unlock()

	if welcome != nil {
		s.afterAppend(*welcome)
	}

	s.track(EventOpened, nil)
}

// CloseChat closes the widget
func (s *Session) CloseChat() {
	s.mu.Lock()
	s.isOpen = false
	s.mu.Unlock()

	s.track(EventClosed, nil)
}

// ToggleChat opens a closed widget and closes an open one
func (s *Session) ToggleChat() {
	s.mu.Lock()
	open := s.isOpen
	s.mu.Unlock()

	if open {
		s.CloseChat()
	} else {
		s.OpenChat()
	}
}

// SetEnabled turns the widget on or off; disabling also closes it
func (s *Session) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.isEnabled = enabled
	s.mu.Unlock()

	if !enabled {
		s.CloseChat()
	}
}

// Initialize records that the widget was loaded
func (s *Session) Initialize() {
	s.mu.Lock()
	enabled := s.isEnabled
	s.mu.Unlock()

	if enabled {
		s.track(EventInitialized, map[string]any{"provider": s.provider})
	}
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Recent returns up to n of the latest transcript entries
func (s *Session) Recent(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if len(s.messages) > n {
		start = len(s.messages) - n
	}
	out := make([]Message, len(s.messages)-start)
	copy(out, s.messages[start:])
	return out
}

// State returns the current widget state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		IsEnabled:       s.isEnabled,
		IsOpen:          s.isOpen,
		UnreadCount:     s.unreadCount,
		IsTyping:        s.isTyping,
		CurrentProvider: s.provider,
		IsAIEnabled:     s.aiEnabled,
	}
}

// Provider is the provider tag applied to messages without one
func (s *Session) Provider() string {
	return s.provider
}

func (s *Session) setTyping(typing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isTyping = typing
}

func (s *Session) track(name string, data map[string]any) {
	payload := map[string]any{"event_category": "chat", "provider": s.provider}
	for k, v := range data {
		payload[k] = v
	}
	s.tracker.TrackChatEvent(name, payload)
}

type nopTracker struct{}

func (nopTracker) TrackChatEvent(string, map[string]any) {}

type nopUI struct{}

func (nopUI) Attached() bool       { return false }
func (nopUI) MessageAdded(Message) {}
func (nopUI) ScrollToBottom()      {}
