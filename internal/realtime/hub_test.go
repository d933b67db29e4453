package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(userID uint) *client {
	return &client{
		send:   make(chan []byte, sendBuffer),
		rooms:  make(map[string]bool),
		userID: userID,
	}
}

func drain(t *testing.T, c *client) *Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return &ev
	default:
		return nil
	}
}

func TestPublishToRoom(t *testing.T) {
	h := NewHub()
	a := newTestClient(0)
	b := newTestClient(0)
	h.register(a)
	h.register(b)
	h.join(a, "p1")
	h.join(b, "p1")

	h.PublishToRoom("p1", "vote_updated", map[string]int{"upvotes": 3})

	for _, c := range []*client{a, b} {
		ev := drain(t, c)
		require.NotNil(t, ev)
		require.Equal(t, "vote_updated", ev.Event)
	}
}

func TestPublishToRoomSkipsOtherRooms(t *testing.T) {
	h := NewHub()
	a := newTestClient(0)
	b := newTestClient(0)
	h.register(a)
	h.register(b)
	h.join(a, "p1")
	h.join(b, "p2")

	h.PublishToRoom("p1", "canvas_cleared", nil)

	require.NotNil(t, drain(t, a))
	require.Nil(t, drain(t, b))
}

func TestRelaySkipsSender(t *testing.T) {
	h := NewHub()
	sender := newTestClient(0)
	peer := newTestClient(0)
	h.register(sender)
	h.register(peer)
	h.join(sender, "p1")
	h.join(peer, "p1")

	h.relay(sender, "p1", "cursor_update", map[string]int{"x": 4, "y": 9})

	require.Nil(t, drain(t, sender))
	ev := drain(t, peer)
	require.NotNil(t, ev)
	require.Equal(t, "cursor_update", ev.Event)
}

func TestPublishToUser(t *testing.T) {
	h := NewHub()
	alice := newTestClient(11)
	bob := newTestClient(22)
	h.register(alice)
	h.register(bob)

	h.PublishToUser(11, "new_notification", map[string]string{"type": "NEW_CONTRIBUTOR"})

	ev := drain(t, alice)
	require.NotNil(t, ev)
	require.Equal(t, "new_notification", ev.Event)
	require.Nil(t, drain(t, bob))
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	h := NewHub()
	clients := []*client{newTestClient(0), newTestClient(5), newTestClient(6)}
	for _, c := range clients {
		h.register(c)
	}
	h.join(clients[0], "p1")

	h.Broadcast("project_deleted", map[string]string{"projectId": "p1"})

	for _, c := range clients {
		ev := drain(t, c)
		require.NotNil(t, ev)
		require.Equal(t, "project_deleted", ev.Event)
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	h := NewHub()
	a := newTestClient(0)
	h.register(a)
	h.join(a, "p1")
	h.leave(a, "p1")

	h.PublishToRoom("p1", "vote_updated", nil)
	require.Nil(t, drain(t, a))
}

func TestUnregisterRemovesFromRooms(t *testing.T) {
	h := NewHub()
	a := newTestClient(3)
	h.register(a)
	h.join(a, "p1")

	h.unregister(a)

	h.mu.RLock()
	_, roomLeft := h.rooms["p1"]
	_, userRoomLeft := h.rooms[userRoom(3)]
	h.mu.RUnlock()
	require.False(t, roomLeft)
	require.False(t, userRoomLeft)

	// The send channel is closed so the write pump shuts down.
	_, open := <-a.send
	require.False(t, open)
}

func TestSlowConsumerDoesNotBlockPublish(t *testing.T) {
	h := NewHub()
	slow := newTestClient(0)
	slow.send = make(chan []byte, 1)
	h.register(slow)
	h.join(slow, "p1")

	h.PublishToRoom("p1", "vote_updated", 1)
	h.PublishToRoom("p1", "vote_updated", 2)

	// Second message is dropped, not queued behind a stalled reader.
	require.NotNil(t, drain(t, slow))
	require.Nil(t, drain(t, slow))
}
