package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
)

const writeTimeout = 5 * time.Second

// AuthorizeFunc gates room membership. It receives the connected user and the
// project id the client wants to join and applies the same membership check
// REST reads use.
type AuthorizeFunc func(ctx context.Context, userID, projectID string) (bool, error)

// Message is the frame delivered to subscribed clients.
type Message struct {
	Event   string      `json:"event"`
	Room    string      `json:"room,omitempty"`
	Payload interface{} `json:"payload"`
}

type wsConn interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

type Client struct {
	conn   wsConn
	userID string
	rooms  map[string]struct{}
}

// Hub owns the live room registry: a process-local mapping from room key to
// the set of connected clients. Rooms are joined and left by client message
// and vanish with the process; delivery is best-effort with no replay.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	rooms     map[string]map[*Client]struct{}
	authorize AuthorizeFunc
	bridge    Bridge
	logger    zerolog.Logger
}

// Bridge fans events out to other instances. Optional.
type Bridge interface {
	Publish(ctx context.Context, msg Message) error
}

func NewHub(logger zerolog.Logger, authorize AuthorizeFunc) *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		rooms:     make(map[string]map[*Client]struct{}),
		authorize: authorize,
		logger:    logger,
	}
}

func (h *Hub) SetBridge(b Bridge) {
	h.bridge = b
}

func RoomKey(projectID string) string {
	return "project-" + projectID
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	for room := range c.rooms {
		h.removeFromRoom(room, c)
	}
	h.mu.Unlock()
}

// removeFromRoom requires h.mu held.
func (h *Hub) removeFromRoom(room string, c *Client) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) Join(ctx context.Context, c *Client, projectID string) error {
	if h.authorize != nil {
		ok, err := h.authorize(ctx, c.userID, projectID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	room := RoomKey(projectID)
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
	h.mu.Unlock()
	return nil
}

func (h *Hub) Leave(c *Client, projectID string) {
	room := RoomKey(projectID)
	h.mu.Lock()
	h.removeFromRoom(room, c)
	delete(c.rooms, room)
	h.mu.Unlock()
}

// Broadcast delivers a message to every client in the room, or to every
// connected client when the room is empty. Writes are best-effort: a slow or
// dead client is skipped, never retried.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("event", msg.Event).Msg("marshal broadcast")
		return
	}

	h.deliverLocal(msg.Room, data)

	if h.bridge != nil {
		if err := h.bridge.Publish(context.Background(), msg); err != nil {
			h.logger.Warn().Err(err).Str("event", msg.Event).Msg("bridge publish failed")
		}
	}
}

func (h *Hub) deliverLocal(room string, data []byte) {
	h.mu.RLock()
	var targets []*Client
	if room == "" {
		for c := range h.clients {
			targets = append(targets, c)
		}
	} else {
		for c := range h.rooms[room] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		_ = c.conn.Write(ctx, websocket.MessageText, data)
		cancel()
	}
}

func (h *Hub) roomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
