package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/playgroundlab/webstack/internal/infrastructure/logging"
	"github.com/playgroundlab/webstack/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Event is a single diagnostic message pushed to stream subscribers.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Hub fans diagnostic events out to every connected client.
type Hub struct {
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu    sync.RWMutex
	conns map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger, metrics *monitoring.Metrics) *Hub {
	return &Hub{
		logger:  logger,
		metrics: metrics,
		conns:   make(map[*client]struct{}),
	}
}

// HandleConnection upgrades the request and keeps the connection
// subscribed until the peer goes away.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn}
	h.add(cl)
	defer h.remove(cl)

	h.sendTo(cl, Event{
		Type:      "system",
		Message:   "connected to diagnostics stream",
		Timestamp: time.Now().Unix(),
	})

	// Drain the connection; the peer only subscribes, so any read
	// result other than a clean message means disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish broadcasts an event to every subscriber. Serialization errors
// and per-connection write failures are logged, never propagated.
func (h *Hub) Publish(eventType string, payload interface{}) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}
	data, err := sonic.Marshal(event)
	if err != nil {
		h.logger.Error("marshal stream event", zap.Error(err), zap.String("type", eventType))
		return
	}

	h.mu.RLock()
	subscribers := make([]*client, 0, len(h.conns))
	for cl := range h.conns {
		subscribers = append(subscribers, cl)
	}
	h.mu.RUnlock()

	for _, cl := range subscribers {
		if err := cl.write(data); err != nil {
			h.logger.Debug("drop stream subscriber", zap.Error(err))
			h.remove(cl)
		}
	}

	if h.metrics != nil {
		h.metrics.RecordStreamEvent(eventType)
	}
}

// PublishError broadcasts a failure as an error event.
func (h *Hub) PublishError(source string, err error) {
	h.Publish("error", map[string]interface{}{
		"source":  source,
		"message": err.Error(),
	})
}

// Subscribers returns the current connection count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) sendTo(cl *client, event Event) {
	data, err := sonic.Marshal(event)
	if err != nil {
		h.logger.Error("marshal stream event", zap.Error(err))
		return
	}
	if err := cl.write(data); err != nil {
		h.logger.Debug("stream write failed", zap.Error(err))
	}
}

func (h *Hub) add(cl *client) {
	h.mu.Lock()
	h.conns[cl] = struct{}{}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.IncStreamConnections()
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	_, ok := h.conns[cl]
	if ok {
		delete(h.conns, cl)
		cl.conn.Close()
	}
	h.mu.Unlock()

	// remove runs both from the read loop and from broadcast failures;
	// only the call that actually evicted the client decrements.
	if ok && h.metrics != nil {
		h.metrics.DecStreamConnections()
	}
}
