// internal/domain/assistant/client.go
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProxyPath is the route the proxy is mounted on
const ProxyPath = "/api/chat/free-ai"

// DefaultClientTimeout bounds one chat round trip
const DefaultClientTimeout = 30 * time.Second

// Transport failures reported by Client
var (
	ErrRequestTimeout = errors.New("assistant request timed out")
	ErrConnection     = errors.New("assistant endpoint unreachable")
)

// StatusError is returned when the proxy answers with a non-2xx status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("assistant proxy returned status %d %s", e.Code, http.StatusText(e.Code))
}

// Client calls a remote proxy route over HTTP
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the proxy hosted at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &Client{
		url:        strings.TrimRight(baseURL, "/") + ProxyPath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ask posts the request to the proxy and decodes its envelope
func (c *Client) Ask(ctx context.Context, req Request) (Envelope, error) {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []Turn{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return Envelope{}, fmt.Errorf("%w: %v", ErrRequestTimeout, err)
		}
		return Envelope{}, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Envelope{}, &StatusError{Code: resp.StatusCode}
	}

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return envelope, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
