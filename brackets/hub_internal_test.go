package brackets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesOnlyRoomMembers(t *testing.T) {
	h := NewHub(nil)
	var counts []int
	h.OnClientCountChange(func(total int) { counts = append(counts, total) })

	watcher := &Client{Hub: h, Send: make(chan []byte, 1), Room: RoomFor("t1")}
	other := &Client{Hub: h, Send: make(chan []byte, 1), Room: RoomFor("t2")}
	h.addClient(watcher)
	h.addClient(other)
	assert.Equal(t, 1, h.RoomSize(RoomFor("t1")))

	h.BroadcastToRoom(RoomFor("t1"), WebSocketMessage{Type: EventMatchUpdated, Payload: map[string]string{"id": "R1M1"}})

	require.Len(t, watcher.Send, 1)
	assert.Empty(t, other.Send)

	var got WebSocketMessage
	require.NoError(t, json.Unmarshal(<-watcher.Send, &got))
	assert.Equal(t, EventMatchUpdated, got.Type)
	assert.Equal(t, "tournament_t1", got.RoomID)

	h.removeClient(watcher)
	h.removeClient(watcher)
	assert.True(t, watcher.IsClosed)
	assert.Equal(t, 0, h.RoomSize(RoomFor("t1")))
	assert.Equal(t, []int{1, 2, 1}, counts)
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	c := &Client{Hub: h, Send: make(chan []byte, 1), Room: RoomFor("t1")}
	h.addClient(c)

	h.BroadcastToRoom(RoomFor("t1"), WebSocketMessage{Type: EventBracketUpdated})
	h.BroadcastToRoom(RoomFor("t1"), WebSocketMessage{Type: EventBracketUpdated})

	assert.Len(t, c.Send, 1)
}

func TestHub_JoinIsImmediate(t *testing.T) {
	h := NewHub(nil)
	c := &Client{Hub: h, Send: make(chan []byte, 2), Room: RoomFor("t1")}

	h.Join(c)
	assert.Equal(t, 1, h.RoomSize(RoomFor("t1")))
	h.BroadcastToRoom(RoomFor("t1"), WebSocketMessage{Type: EventStandingsUpdated})
	assert.Len(t, c.Send, 1)

	assert.True(t, c.Queue([]byte(`{}`)))
	assert.False(t, c.Queue([]byte(`{}`)), "buffer full")

	h.removeClient(c)
	assert.False(t, c.Queue([]byte(`{}`)), "closed client")
}
