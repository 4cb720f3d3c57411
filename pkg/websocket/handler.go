package websocket

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatBackend is what the hub needs from the chat domain: room resolution
// with a participant check, and durable message storage.
type ChatBackend interface {
	ResolveRoom(ctx context.Context, packageID, viewerID, partnerID primitive.ObjectID) (roomID primitive.ObjectID, roomKey string, err error)
	SaveMessage(ctx context.Context, roomID, senderID primitive.ObjectID, text string) error
}

// Options tunes the upgrader and per-connection limits.
type Options struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongTimeout     time.Duration
	MaxMessageSize  int64
	AllowedOrigins  []string
}

func DefaultOptions() Options {
	return Options{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		PingInterval:    54 * time.Second,
		PongTimeout:     60 * time.Second,
		MaxMessageSize:  4096,
		AllowedOrigins:  []string{"*"},
	}
}

type Handler struct {
	hub      *Hub
	backend  ChatBackend
	opts     Options
	upgrader websocket.Upgrader
}

func NewHandler(backend ChatBackend, opts Options) *Handler {
	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub:     hub,
		backend: backend,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		set[origin] = true
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		return set[r.Header.Get("Origin")]
	}
}

// HandleChat upgrades GET /ws/chat/:package_id/:partner_id. The viewer comes
// from the auth middleware; the backend rejects non-participants before the
// upgrade happens.
func (h *Handler) HandleChat(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	viewerID, ok := userID.(primitive.ObjectID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	username := c.GetString("username")

	packageID, err := primitive.ObjectIDFromHex(c.Param("package_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package ID"})
		return
	}

	partnerID, err := primitive.ObjectIDFromHex(c.Param("partner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return
	}

	roomID, roomKey, err := h.backend.ResolveRoom(c.Request.Context(), packageID, viewerID, partnerID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this chat"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, h.backend, conn, h.opts, viewerID, username, roomID, roomKey)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Handler) GetHub() *Hub {
	return h.hub
}
