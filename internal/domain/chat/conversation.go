// internal/domain/chat/conversation.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nuvella/storefront-api/internal/domain/assistant"
	"github.com/nuvella/storefront-api/internal/pkg/ollama"
	"github.com/sirupsen/logrus"
)

// historySize is how many transcript entries accompany a new message
const historySize = 10

// GenericApology replaces a reply that could not be used
const GenericApology = "Maaf, terjadi kesalahan. Silakan coba lagi atau hubungi customer service kami."

// Responder produces the assistant reply for one message
type Responder interface {
	Ask(ctx context.Context, req assistant.Request) (assistant.Envelope, error)
}

// SendResult is the outcome of one SendMessage call
type SendResult struct {
	UserMessage *Message `json:"userMessage"`
	AIMessage   *Message `json:"aiMessage"`
	Success     bool     `json:"success"`
	Error       string   `json:"error,omitempty"`
}

// Conversation drives the round trip between a session and its responder
type Conversation struct {
	session   *Session
	responder Responder
	whatsapp  string
	timeout   time.Duration
	log       logrus.FieldLogger
}

// NewConversation binds a responder to a chat session
func NewConversation(session *Session, responder Responder, whatsapp string, timeout time.Duration, log logrus.FieldLogger) *Conversation {
	if timeout <= 0 {
		timeout = assistant.DefaultClientTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Conversation{
		session:   session,
		responder: responder,
		whatsapp:  whatsapp,
		timeout:   timeout,
		log:       log,
	}
}

// Session returns the underlying transcript
func (c *Conversation) Session() *Session {
	return c.session
}

// SendMessage appends the user's text, asks the responder and appends the reply.
// It returns nil when the text is empty. Failures are turned into an apology
// message instead of an error.
func (c *Conversation) SendMessage(ctx context.Context, text string) *SendResult {
	userMessage := c.session.AddMessage(text, true, Metadata{})
	if userMessage == nil {
		return nil
	}

	// The window ends with the message just added
	history := c.history()

	envelope, err := c.ask(ctx, userMessage.Text, history)
	if err != nil {
		c.log.WithError(err).Warn("Chat responder failed")

		meta := Metadata{Provider: assistant.ProviderFallback, Success: boolPtr(false)}
		var panicErr *panicError
		if errors.As(err, &panicErr) {
			meta = Metadata{Type: TypeError}
		}

		aiMessage := c.session.AddMessage(c.apology(err), false, meta)
		return &SendResult{UserMessage: userMessage, AIMessage: aiMessage, Success: false, Error: err.Error()}
	}

	provider := envelope.Provider
	if provider == "" {
		provider = assistant.ProviderOllama
	}

	aiMessage := c.session.AddMessage(envelope.Message, false, Metadata{
		Provider: provider,
		Success:  boolPtr(envelope.Success),
	})
	if aiMessage == nil {
		c.log.WithField("provider", provider).Warn("Chat responder returned an empty reply")
		aiMessage = c.session.AddMessage(GenericApology, false, Metadata{Type: TypeError})
		return &SendResult{UserMessage: userMessage, AIMessage: aiMessage, Success: false, Error: "empty reply"}
	}

	return &SendResult{UserMessage: userMessage, AIMessage: aiMessage, Success: envelope.Success, Error: envelope.Error}
}

// HandleQuickAction sends the canned question of a quick action.
// Unknown ids return nil.
func (c *Conversation) HandleQuickAction(ctx context.Context, id int) *SendResult {
	action, ok := FindQuickAction(id)
	if !ok || action.Message == "" {
		return nil
	}

	c.session.track(EventQuickActionUsed, map[string]any{"action": action.Action})
	return c.SendMessage(ctx, action.Message)
}

// WhatsAppURL builds the hand-off link to human support
func (c *Conversation) WhatsAppURL(message string) string {
	return WhatsAppURL(c.whatsapp, message)
}

func (c *Conversation) history() []assistant.Turn {
	recent := c.session.Recent(historySize)
	turns := make([]assistant.Turn, len(recent))
	for i, m := range recent {
		turns[i] = assistant.Turn{Text: m.Text, IsUser: m.IsUser}
	}
	return turns
}

func (c *Conversation) ask(ctx context.Context, text string, history []assistant.Turn) (envelope assistant.Envelope, err error) {
	c.session.setTyping(true)
	defer c.session.setTyping(false)

	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.responder.Ask(ctx, assistant.Request{Message: text, ConversationHistory: history})
}

// apology picks the user-facing message for a responder failure
func (c *Conversation) apology(err error) string {
	var statusErr *assistant.StatusError
	var panicErr *panicError

	switch {
	case errors.As(err, &panicErr):
		return GenericApology
	case errors.Is(err, assistant.ErrRequestTimeout), errors.Is(err, context.DeadlineExceeded), ollama.IsTimeout(err):
		return "Maaf, response AI terlalu lama. Silakan coba lagi atau hubungi WhatsApp kami di " + c.whatsapp + "."
	case errors.Is(err, assistant.ErrConnection), ollama.IsNotRunning(err):
		return "Maaf, ada masalah koneksi. Pastikan Ollama berjalan dan coba lagi."
	case errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound:
		return "Maaf, layanan AI belum tersedia. Silakan hubungi customer service kami."
	default:
		return "Maaf, sistem AI sedang mengalami gangguan. Silakan hubungi WhatsApp kami di " + c.whatsapp + "."
	}
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("chat responder panicked: %v", e.value)
}
