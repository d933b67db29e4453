package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"collabcanvas-app/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newWSServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", h.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, query string, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func signTestToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   "user@example.com",
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(config.JWT_SECRET))
	require.NoError(t, err)
	return signed
}

func waitForRoom(t *testing.T, h *Hub, room string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		n := len(h.rooms[room])
		h.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no subscriber showed up in room %q", room)
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		got := len(h.clients)
		h.mu.RUnlock()
		if got >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connected clients", n)
}

func readEvent(t *testing.T, conn *websocket.Conn) *Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return &ev
}

func TestServeWSTokenJoinsPrivateRoom(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	h := NewHub()
	srv := newWSServer(t, h)

	conn := dialWS(t, srv, "?token="+signTestToken(t, 42), nil)
	waitForRoom(t, h, userRoom(42))

	h.PublishToUser(42, "new_notification", map[string]string{"message": "hi"})

	ev := readEvent(t, conn)
	require.Equal(t, "new_notification", ev.Event)
}

func TestServeWSAuthorizationHeader(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	h := NewHub()
	srv := newWSServer(t, h)

	header := http.Header{"Authorization": []string{"Bearer " + signTestToken(t, 7)}}
	dialWS(t, srv, "", header)
	waitForRoom(t, h, userRoom(7))
}

func TestServeWSIgnoresClaimedUserID(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	h := NewHub()
	srv := newWSServer(t, h)

	// A bare userId query parameter is not a credential.
	conn := dialWS(t, srv, "?userId=42", nil)
	waitForClients(t, h, 1)

	h.mu.RLock()
	_, claimed := h.rooms[userRoom(42)]
	h.mu.RUnlock()
	require.False(t, claimed)

	h.PublishToUser(42, "new_notification", map[string]string{"message": "private"})

	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestServeWSRejectsForgedToken(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	h := NewHub()
	srv := newWSServer(t, h)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	dialWS(t, srv, "?token="+signed, nil)
	waitForClients(t, h, 1)

	h.mu.RLock()
	_, claimed := h.rooms[userRoom(42)]
	h.mu.RUnlock()
	require.False(t, claimed)
}

func TestServeWSAnonymousCanStillJoinProjectRoom(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	h := NewHub()
	srv := newWSServer(t, h)

	conn := dialWS(t, srv, "", nil)
	waitForClients(t, h, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"event":     "join_project",
		"projectId": "p1",
	}))
	waitForRoom(t, h, "p1")

	h.PublishToRoom("p1", "canvas_cleared", map[string]string{"projectId": "p1"})
	ev := readEvent(t, conn)
	require.Equal(t, "canvas_cleared", ev.Event)
}
