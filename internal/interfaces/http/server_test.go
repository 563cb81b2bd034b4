package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/domain/analytics"
	"github.com/nuvella/storefront-api/internal/domain/assistant"
	"github.com/nuvella/storefront-api/internal/domain/session"
	"github.com/nuvella/storefront-api/internal/domain/user"
	"github.com/nuvella/storefront-api/internal/infrastructure/storage"
	"github.com/nuvella/storefront-api/internal/interfaces/http/routes"
	"github.com/nuvella/storefront-api/internal/interfaces/http/ws"
	"github.com/nuvella/storefront-api/internal/pkg/auth"
	"github.com/nuvella/storefront-api/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv    *httptest.Server
	client *nethttp.Client
	jwt    *auth.JWTManager
	hub    *ws.Hub
	cfg    *config.Config
}

type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "Toko Online Nuxt", Environment: "test"},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		JWT:    config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{
			RateLimitPerMinute: 6000,
			RateLimitBurst:     1000,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		},
		Chat:    config.ChatConfig{Enabled: true, Provider: config.ProviderStatic, WhatsAppNumber: "0812-3456-7890", ClientTimeout: time.Second},
		Storage: config.StorageConfig{Driver: config.DriverMemory, PersistenceEnabled: true},
		Session: config.SessionConfig{CookieName: "session_id", IdleTimeout: time.Hour},
		Store:   config.DefaultStoreProfile("0812-3456-7890"),
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	log := logger.Discard()
	kv := storage.NewMemory()
	analyticsService := analytics.NewService(analytics.NewMemoryStore(), log)
	assistantService := assistant.NewService(cfg, nil, log)
	hub := ws.NewHub(nil, log)
	registry := session.NewRegistry(session.NewFactory(cfg, kv, analyticsService, assistantService, hub, log), time.Hour)
	jwtManager := auth.NewJWTManager(cfg)

	server := NewServer(cfg, routes.Dependencies{
		Config:    cfg,
		JWT:       jwtManager,
		Sessions:  registry,
		Assistant: assistantService,
		Users:     user.NewService(kv, log),
		Analytics: analyticsService,
		Hub:       hub,
		Log:       log,
	}, nil, nil)

	srv := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{srv: srv, client: &nethttp.Client{Jar: jar}, jwt: jwtManager, hub: hub, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) (*nethttp.Response, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := nethttp.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp, env
}

func (e *testEnv) bearer(t *testing.T, id auth.Identity) []string {
	t.Helper()
	token, err := e.jwt.GenerateAccessToken(id)
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + token}
}

func (e *testEnv) sessionCookie(t *testing.T) *nethttp.Cookie {
	t.Helper()
	u, err := url.Parse(e.srv.URL)
	require.NoError(t, err)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == e.cfg.Session.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, nethttp.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "kemeja-1", "name": "Kemeja Flanel", "price": 150000, "quantity": 2,
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	var snapshot struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
			Store    string `json:"store"`
		} `json:"items"`
		Totals struct {
			TotalItems int     `json:"totalItems"`
			TotalPrice float64 `json:"totalPrice"`
		} `json:"totals"`
		ShowNotification bool `json:"showNotification"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &snapshot))
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, 2, snapshot.Totals.TotalItems)
	assert.Equal(t, 300000.0, snapshot.Totals.TotalPrice)
	assert.True(t, snapshot.ShowNotification)

	// Same session cookie, same cart
	resp, body = env.do(t, nethttp.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &snapshot))
	assert.Len(t, snapshot.Items, 1)

	// Unknown ids are ignored
	resp, body = env.do(t, nethttp.MethodPut, "/api/v1/cart/items/unknown", map[string]any{"quantity": 3})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &snapshot))
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "kemeja-1", snapshot.Items[0].ID)
	assert.Equal(t, 2, snapshot.Items[0].Quantity)

	resp, _ = env.do(t, nethttp.MethodPut, "/api/v1/cart/items/kemeja-1", map[string]any{})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, nethttp.MethodPut, "/api/v1/cart/items/kemeja-1", map[string]any{"quantity": 0})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &snapshot))
	assert.Empty(t, snapshot.Items)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/cart/items", map[string]any{"name": "tanpa id"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestChatEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, nethttp.MethodPost, "/api/v1/chat/open", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var chatData struct {
		State struct {
			IsOpen bool `json:"isOpen"`
		} `json:"state"`
		Messages []struct {
			Text string `json:"text"`
			Type string `json:"type"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &chatData))
	assert.True(t, chatData.State.IsOpen)
	require.Len(t, chatData.Messages, 1)
	assert.Equal(t, "welcome", chatData.Messages[0].Type)

	resp, body = env.do(t, nethttp.MethodPost, "/api/v1/chat/messages", map[string]any{"message": "berapa ongkir ke Bandung?"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var result struct {
		Success   bool `json:"success"`
		AIMessage struct {
			Text     string `json:"text"`
			Provider string `json:"provider"`
		} `json:"aiMessage"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.True(t, result.Success)
	assert.Equal(t, assistant.ProviderStatic, result.AIMessage.Provider)
	assert.NotEmpty(t, result.AIMessage.Text)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/chat/messages", map[string]any{"message": 42})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/chat/messages", map[string]any{"message": "   "})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/chat/quick-actions/2", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/chat/quick-actions/99", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, nethttp.MethodGet, "/api/v1/chat/whatsapp?message=Halo+kak", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"url":"https://wa.me/081234567890?text=Halo%20kak"}`, string(body.Data))

	resp, body = env.do(t, nethttp.MethodDelete, "/api/v1/chat/messages", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &chatData))
	assert.Empty(t, chatData.Messages)
}

func TestChatEnabledRoute(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, nethttp.MethodPost, "/api/v1/chat/open", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var chatData struct {
		State struct {
			IsEnabled bool `json:"isEnabled"`
			IsOpen    bool `json:"isOpen"`
		} `json:"state"`
	}

	resp, body := env.do(t, nethttp.MethodPut, "/api/v1/chat/enabled", map[string]any{"enabled": false})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &chatData))
	assert.False(t, chatData.State.IsEnabled)
	assert.False(t, chatData.State.IsOpen)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/chat/messages", map[string]any{"message": "halo"})
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPut, "/api/v1/chat/enabled", map[string]any{})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, nethttp.MethodPut, "/api/v1/chat/enabled", map[string]any{"enabled": true})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &chatData))
	assert.True(t, chatData.State.IsEnabled)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/chat/messages", map[string]any{"message": "halo"})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestChatProxyRoute(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Post(env.srv.URL+"/api/chat/free-ai", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var reply assistant.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.False(t, reply.Success)
	assert.Equal(t, assistant.ProviderFallback, reply.Provider)
	assert.NotEmpty(t, reply.Message)

	data, err := json.Marshal(assistant.Request{Message: "ada promo?"})
	require.NoError(t, err)
	resp2, err := env.client.Post(env.srv.URL+"/api/chat/free-ai", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp2.Body.Close()

	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&reply))
	assert.True(t, reply.Success)
	assert.Equal(t, assistant.ProviderStatic, reply.Provider)
}

func TestConfirmationEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, nethttp.MethodPost, "/api/v1/confirmations", map[string]any{"preset": "clear_cart", "count": 3})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	var pending struct {
		ID      string `json:"id"`
		Request struct {
			Title       string `json:"title"`
			ConfirmText string `json:"confirmText"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &pending))
	require.NotEmpty(t, pending.ID)
	assert.Equal(t, "Kosongkan Keranjang", pending.Request.Title)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/confirmations", map[string]any{"preset": "checkout"})
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodGet, "/api/v1/confirmations/current", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodGet, "/api/v1/confirmations/"+pending.ID+"/result?wait=10ms", nil)
	assert.Equal(t, nethttp.StatusAccepted, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/confirmations/"+pending.ID+"/dismiss", nil)
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/confirmations/"+pending.ID+"/confirm", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body = env.do(t, nethttp.MethodGet, "/api/v1/confirmations/"+pending.ID+"/result", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"`+pending.ID+`","resolved":true,"confirmed":true}`, string(body.Data))

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/confirmations/"+pending.ID+"/cancel", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodGet, "/api/v1/confirmations/current", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/confirmations", map[string]any{})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, nethttp.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	headers := env.bearer(t, auth.Identity{UserID: "user-1", Email: "budi@example.com", Name: "Budi"})

	resp, body := env.do(t, nethttp.MethodGet, "/api/v1/auth/me", nil, headers...)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var profile user.Profile
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.Equal(t, "user-1", profile.UID)
	assert.Equal(t, "Budi", profile.DisplayName)

	resp, body = env.do(t, nethttp.MethodPut, "/api/v1/auth/me", map[string]any{"displayName": "Budi Santoso"}, headers...)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.Equal(t, "Budi Santoso", profile.DisplayName)

	resp, _ = env.do(t, nethttp.MethodPut, "/api/v1/auth/me", map[string]any{"photoURL": "bukan url"}, headers...)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	// Deleting drops the edits; the next read rebuilds from the token
	resp, _ = env.do(t, nethttp.MethodDelete, "/api/v1/auth/me", nil, headers...)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body = env.do(t, nethttp.MethodGet, "/api/v1/auth/me", nil, headers...)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.Equal(t, "Budi", profile.DisplayName)

	resp, _ = env.do(t, nethttp.MethodDelete, "/api/v1/auth/me", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAnalytics(t *testing.T) {
	env := newTestEnv(t)

	// Produce a few events
	env.do(t, nethttp.MethodPost, "/api/v1/chat/open", nil)
	env.do(t, nethttp.MethodPost, "/api/v1/cart/items", map[string]any{"id": "p1", "price": 1000})

	resp, _ := env.do(t, nethttp.MethodGet, "/api/v1/admin/analytics/events", nil, env.bearer(t, auth.Identity{UserID: "user-1"})...)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	admin := env.bearer(t, auth.Identity{UserID: "admin-1", IsAdmin: true})

	resp, _ = env.do(t, nethttp.MethodGet, "/api/v1/admin/analytics/events?since=kemarin", nil, admin...)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, body := env.do(t, nethttp.MethodGet, "/api/v1/admin/analytics/events", nil, admin...)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var summary struct {
		TotalEvents int64 `json:"total_events"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &summary))
	assert.Positive(t, summary.TotalEvents)
}

func TestEventStreamReceivesCartNotification(t *testing.T) {
	env := newTestEnv(t)

	// Obtain the session cookie first
	resp, _ := env.do(t, nethttp.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	cookie := env.sessionCookie(t)

	header := nethttp.Header{}
	header.Set("Cookie", cookie.Name+"="+cookie.Value)
	wsURL := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/v1/events"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.Attached(cookie.Value) }, time.Second, 10*time.Millisecond)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/cart/items", map[string]any{"id": "p1", "name": "Topi", "price": 50000})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string `json:"type"`
		Data struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, session.EventCartItemAdded, event.Type)
	assert.Equal(t, "p1", event.Data.ID)
	assert.Equal(t, 1, event.Data.Quantity)
}

func TestHealthWithoutBackends(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, nethttp.MethodGet, "/health", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodGet, "/ready", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}
