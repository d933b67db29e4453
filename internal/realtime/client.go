package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"collabcanvas-app/config"
	"collabcanvas-app/logutils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// CORS is enforced at the HTTP layer; the socket accepts any origin
	// the browser let through.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	rooms  map[string]bool
	userID uint
}

// inbound is the client->server message envelope.
type inbound struct {
	Event     string          `json:"event"`
	ProjectID string          `json:"projectId"`
	Data      json.RawMessage `json:"data"`
}

// ServeWS upgrades GET /ws. The private room subscription comes from the
// app JWT (Authorization header or token query parameter, the latter for
// browser websocket clients that cannot set headers). Connections without a
// valid token stay anonymous: they can join project rooms but get no
// private room.
func (h *Hub) ServeWS(c *gin.Context) {
	userID := authenticatedUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logutils.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	cl := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		rooms:  make(map[string]bool),
		userID: userID,
	}
	h.register(cl)

	go cl.writePump()
	go cl.readPump()
}

// authenticatedUserID validates the caller's JWT the same way the HTTP auth
// middleware does and returns the user_id claim, or 0 when no valid token
// is presented.
func authenticatedUserID(c *gin.Context) uint {
	raw := c.Query("token")
	if raw == "" {
		header := c.GetHeader("Authorization")
		raw = strings.TrimPrefix(header, "Bearer ")
		if raw == header {
			raw = ""
		}
	}
	if raw == "" {
		return 0
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.JWT_SECRET), nil
	})
	if err != nil || !token.Valid {
		return 0
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0
	}
	return uint(id)
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		c.handle(msg)
	}
}

func (c *client) handle(msg inbound) {
	switch msg.Event {
	case "join_project":
		c.hub.join(c, msg.ProjectID)
	case "leave_project":
		c.hub.leave(c, msg.ProjectID)
	case "new_drawing":
		// Peer relay: the submitting client tells its room about a new
		// contribution; the server only forwards.
		c.hub.relay(c, msg.ProjectID, "drawing_received", msg.Data)
	case "cursor_move":
		c.hub.relay(c, msg.ProjectID, "cursor_update", msg.Data)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend drops the message if the client's buffer is full. A slow consumer
// must not stall a publish.
func (c *client) trySend(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}
