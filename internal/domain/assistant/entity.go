// internal/domain/assistant/entity.go
package assistant

// Provider tags reported in the envelope
const (
	ProviderOllama   = "ollama"
	ProviderFallback = "fallback"
	ProviderStatic   = "static"
)

// Turn is one earlier transcript entry sent along with a new message
type Turn struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

// Request is the body of POST /api/chat/free-ai
type Request struct {
	Message             string `json:"message"`
	ConversationHistory []Turn `json:"conversationHistory"`
}

// Envelope is the proxy response in both the model and the fallback path
type Envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Provider string `json:"provider"`
	Error    string `json:"error,omitempty"`
}

// Status describes the reachability of the model endpoint
type Status struct {
	Available bool     `json:"available"`
	Endpoint  string   `json:"endpoint"`
	Model     string   `json:"model"`
	Models    []string `json:"models,omitempty"`
	Error     string   `json:"error,omitempty"`
}
