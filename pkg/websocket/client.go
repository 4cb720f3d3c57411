package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const writeWait = 10 * time.Second

// Client is one websocket connection bound to a single chat room.
type Client struct {
	hub      *Hub
	backend  ChatBackend
	conn     *websocket.Conn
	opts     Options
	send     chan []byte
	UserID   primitive.ObjectID
	Username string
	RoomID   primitive.ObjectID
	RoomKey  string
}

func NewClient(hub *Hub, backend ChatBackend, conn *websocket.Conn, opts Options, userID primitive.ObjectID, username string, roomID primitive.ObjectID, roomKey string) *Client {
	return &Client{
		hub:      hub,
		backend:  backend,
		conn:     conn,
		opts:     opts,
		send:     make(chan []byte, 256),
		UserID:   userID,
		Username: username,
		RoomID:   roomID,
		RoomKey:  roomKey,
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(payload)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(payload)

			// Drain queued messages into the same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// handleMessage persists the incoming chat line first and broadcasts only
// after the write succeeds, so a delivered event always has a durable row.
func (c *Client) handleMessage(payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("Error unmarshaling client message: %v", err)
		return
	}

	if event.Message == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.backend.SaveMessage(ctx, c.RoomID, c.UserID, event.Message); err != nil {
		log.Printf("Error persisting chat message: %v", err)
		return
	}

	c.hub.broadcast <- Event{
		Type:      "chat_message",
		RoomKey:   c.RoomKey,
		SenderID:  c.UserID,
		Sender:    c.Username,
		Message:   event.Message,
		Timestamp: getCurrentTimestamp(),
	}
}
