package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"collabcanvas-app/logutils"
)

// Gateway is the fan-out surface handlers publish through. Publishing is
// fire-and-forget: a room with no subscribers is not an error.
type Gateway interface {
	PublishToRoom(room, event string, payload any)
	PublishToUser(userID uint, event string, payload any)
	Broadcast(event string, payload any)
}

// Event is the envelope every subscriber receives.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub is the single dispatcher per process. Clients subscribe to one room
// per project they are viewing plus one private room keyed by user id.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*client]bool
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*client]bool),
		clients: make(map[*client]bool),
	}
}

func userRoom(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	if c.userID != 0 {
		h.joinLocked(c, userRoom(c.userID))
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	close(c.send)
}

func (h *Hub) join(c *client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinLocked(c, room)
}

func (h *Hub) joinLocked(c *client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*client]bool)
		h.rooms[room] = members
	}
	members[c] = true
	c.rooms[room] = true
}

func (h *Hub) leave(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

func (h *Hub) PublishToRoom(room, event string, payload any) {
	h.deliver(room, event, payload, nil)
}

func (h *Hub) PublishToUser(userID uint, event string, payload any) {
	h.deliver(userRoom(userID), event, payload, nil)
}

func (h *Hub) Broadcast(event string, payload any) {
	msg, ok := encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.trySend(msg)
	}
}

// relay sends to everyone in room except the originating client, mirroring
// the peer broadcast the drawing clients rely on.
func (h *Hub) relay(from *client, room, event string, payload any) {
	h.deliver(room, event, payload, from)
}

func (h *Hub) deliver(room, event string, payload any, skip *client) {
	msg, ok := encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if c == skip {
			continue
		}
		c.trySend(msg)
	}
}

func encode(event string, payload any) ([]byte, bool) {
	msg, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		logutils.Log.WithFields(logutils.Fields{"event": event}).
			WithError(err).Warn("dropping unencodable realtime event")
		return nil, false
	}
	return msg, true
}
