package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nuvella/storefront-api/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversSessionEvents(t *testing.T) {
	hub := NewHub(nil, logger.Discard())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("session"))
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?session=s1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Attached("s1") }, time.Second, 10*time.Millisecond)
	assert.False(t, hub.Attached("s2"))

	hub.Publish("s2", "toast", map[string]string{"message": "bukan untukmu"})
	hub.Publish("s1", "toast", map[string]string{"message": "Keranjang dikosongkan!"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "toast", event.Type)
	assert.Equal(t, "Keranjang dikosongkan!", event.Data["message"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return !hub.Attached("s1") }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Connections())
}
