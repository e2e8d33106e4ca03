package handler

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"suraksha.com/preparedness/internal/service"
)

// WSHandler runs the realtime channel: each connection gets its text echoed
// back, and emergency events published on redis are broadcast to every
// connected client.
type WSHandler struct {
	redisClient *redis.Client
	upgrader    websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewWSHandler(redisClient *redis.Client) *WSHandler {
	return &WSHandler{
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}

	h.register(conn)
	defer h.unregister(conn)

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			// Client disconnected or error
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		if err := h.write(conn, append([]byte("Echo: "), payload...)); err != nil {
			return
		}
	}
}

// Run forwards emergency events from redis to all connected clients. It
// returns when ctx is cancelled; without redis it is a no-op.
func (h *WSHandler) Run(ctx context.Context) {
	if h.redisClient == nil {
		return
	}

	pubsub := h.redisClient.Subscribe(ctx, service.EventChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("Failed to subscribe to redis channel: %v", err)
		return
	}

	ch := pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

func (h *WSHandler) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *WSHandler) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *WSHandler) broadcast(payload []byte) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := h.write(conn, payload); err != nil {
			log.Printf("Failed to write message to websocket: %v", err)
		}
	}
}

func (h *WSHandler) write(conn *websocket.Conn, payload []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}
