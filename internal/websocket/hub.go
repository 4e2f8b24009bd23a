package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"storyboard-backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans job progress out from redis pub/sub to websocket watchers.
// Subscriptions are job-scoped: the first watcher of a job opens the
// subscription, the last one closing tears it down.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*websocket.Conn
	redisClient *redis.Client
	jwtAuth     *middleware.JWTAuth
	cancelFuncs map[uuid.UUID]context.CancelFunc
}

func NewHub(redisClient *redis.Client, jwtAuth *middleware.JWTAuth) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*websocket.Conn),
		redisClient: redisClient,
		jwtAuth:     jwtAuth,
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
	}
}

// HandleWebSocket upgrades GET /ws/jobs/{id}?token=... into a progress
// stream for one job. Auth is a query param because browsers cannot set
// headers on websocket upgrades.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := h.jwtAuth.Validate(tokenStr); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(jobID, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(jobID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(jobID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[jobID] = append(h.connections[jobID], conn)

	if len(h.connections[jobID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[jobID] = cancel
		go h.subscribeToPubSub(ctx, jobID)
	}

	log.Printf("WebSocket connected: job %s (watchers: %d)", jobID, len(h.connections[jobID]))
}

func (h *Hub) unregisterConnection(jobID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[jobID]
	for i, c := range conns {
		if c == conn {
			h.connections[jobID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[jobID]) == 0 {
		delete(h.connections, jobID)
		if cancel, ok := h.cancelFuncs[jobID]; ok {
			cancel()
			delete(h.cancelFuncs, jobID)
		}
	}

	log.Printf("WebSocket disconnected: job %s", jobID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, jobID uuid.UUID) {
	channel := "job_updates:" + jobID.String()
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(jobID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(jobID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[jobID] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

// SendToJob sends a message directly to a job's watchers, bypassing pub/sub.
func (h *Hub) SendToJob(jobID uuid.UUID, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(jobID, data)
}
