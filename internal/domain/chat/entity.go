// internal/domain/chat/entity.go
package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message types carried in metadata
const (
	TypeWelcome = "welcome"
	TypeError   = "error"
)

// Message is one transcript entry. Messages are never changed after creation.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsUser    bool   `json:"isUser"`
	Timestamp string `json:"timestamp"`
	Provider  string `json:"provider"`
	Type      string `json:"type,omitempty"`
	Success   *bool  `json:"success,omitempty"`
}

// Metadata is the optional extra data attached to a message
type Metadata struct {
	Provider string
	Type     string
	Success  *bool
}

// State is the chat widget state
type State struct {
	IsEnabled       bool   `json:"isEnabled"`
	IsOpen          bool   `json:"isOpen"`
	UnreadCount     int    `json:"unreadCount"`
	IsTyping        bool   `json:"isTyping"`
	CurrentProvider string `json:"currentProvider"`
	IsAIEnabled     bool   `json:"isAiEnabled"`
}

// timestampLayout matches JavaScript's Date.toISOString
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func newMessageID(now time.Time) string {
	return fmt.Sprintf("msg_%d_%s", now.UnixMilli(), uuid.NewString())
}

func formatTimestamp(now time.Time) string {
	return now.UTC().Format(timestampLayout)
}

func boolPtr(v bool) *bool {
	return &v
}
