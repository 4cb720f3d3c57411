package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub keeps the per-room subscriber registry for live chat. Broadcast is
// fire-and-forget: only currently connected room members receive an event;
// the persisted message row is the durable record.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex
}

// Event is the wire format for room traffic in both directions.
type Event struct {
	Type      string             `json:"type"`
	RoomKey   string             `json:"room_key,omitempty"`
	SenderID  primitive.ObjectID `json:"sender_id,omitempty"`
	Sender    string             `json:"sender,omitempty"`
	Message   string             `json:"message"`
	Timestamp int64              `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.SendToRoom(event.RoomKey, event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	if h.rooms[client.RoomKey] == nil {
		h.rooms[client.RoomKey] = make(map[*Client]bool)
	}
	h.rooms[client.RoomKey][client] = true
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	if room, exists := h.rooms[client.RoomKey]; exists {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.RoomKey)
		}
	}
}

// SendToRoom delivers an event to every subscriber of the room. Slow
// consumers are dropped rather than blocking the hub.
func (h *Hub) SendToRoom(roomKey string, event Event) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	room, exists := h.rooms[roomKey]
	if !exists {
		return
	}

	data, _ := json.Marshal(event)
	for client := range room {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
			delete(room, client)
		}
	}
}

// RoomSize reports the current subscriber count, mainly for tests and the
// health endpoint.
func (h *Hub) RoomSize(roomKey string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[roomKey])
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}
