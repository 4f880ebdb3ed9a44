package brackets

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to tournament rooms.
const (
	EventStandingsUpdated = "STANDINGS_UPDATED"
	EventMatchUpdated     = "MATCH_UPDATED"
	EventBracketUpdated   = "BRACKET_UPDATED"

	// EventBoardSnapshot is sent once to a viewer right after it connects.
	EventBoardSnapshot = "BOARD_SNAPSHOT"
)

type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Room     string
	IsClosed bool
	Mu       sync.Mutex
}

type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Hub fans tournament updates out to the websocket clients watching them.
// Clients join one room per tournament.
type Hub struct {
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger

	clients int
	onCount func(total int)
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// OnClientCountChange registers fn to be called with the total number of
// connected clients whenever it changes. Call it before Run.
func (h *Hub) OnClientCountChange(fn func(total int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCount = fn
}

func EncodeMessage(message WebSocketMessage) ([]byte, error) {
	return json.Marshal(message)
}

// RoomFor is the room name of a tournament.
func RoomFor(tournamentID string) string {
	return "tournament_" + tournamentID
}

func (h *Hub) Run() {
	for client := range h.Unregister {
		h.removeClient(client)
	}
}

// Join adds client to its room before returning, so every broadcast that
// starts after Join reaches it.
func (h *Hub) Join(client *Client) {
	h.addClient(client)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[client.Room]; !ok {
		h.rooms[client.Room] = make(map[*Client]bool)
	}
	h.rooms[client.Room][client] = true
	h.clients++
	h.notifyCount()
	h.logger.Info("client registered", slog.String("room", client.Room), slog.Int("clients", len(h.rooms[client.Room])))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	roomClients, ok := h.rooms[client.Room]
	if !ok || !roomClients[client] {
		return
	}
	client.Mu.Lock()
	if !client.IsClosed {
		close(client.Send)
		client.IsClosed = true
	}
	client.Mu.Unlock()
	delete(roomClients, client)
	if len(roomClients) == 0 {
		delete(h.rooms, client.Room)
	}
	h.clients--
	h.notifyCount()
	h.logger.Info("client unregistered", slog.String("room", client.Room), slog.Int("clients", len(roomClients)))
}

// notifyCount runs with h.mu held.
func (h *Hub) notifyCount() {
	if h.onCount != nil {
		h.onCount(h.clients)
	}
}

// RoomSize returns the number of clients watching a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends a message to every client in the room. Clients
// whose buffer is full are skipped rather than blocking the caller.
func (h *Hub) BroadcastToRoom(roomID string, message WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	message.RoomID = roomID
	messageBytes, err := EncodeMessage(message)
	if err != nil {
		h.logger.Error("failed to marshal room message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range roomClients {
		if !client.Queue(messageBytes) && !client.closed() {
			h.logger.Warn("client send buffer full, dropping message", slog.String("room", roomID), slog.String("type", message.Type))
		}
	}
}

// Queue hands message to the write pump without blocking. It reports false
// when the client is gone or its buffer is full.
func (c *Client) Queue(message []byte) bool {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if c.IsClosed {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) closed() bool {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.IsClosed
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		// Viewers are read-only; incoming frames only keep the connection alive.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket closed unexpectedly", slog.String("room", c.Room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Warn("websocket write failed", slog.String("room", c.Room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
