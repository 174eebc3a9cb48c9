package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
	"github.com/Edgame2/castiel2-sub001/internal/domain/document"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin policy is enforced by the CORS layer
	},
}

// clientBuffer bounds per-connection queues; a client that cannot keep
// up is dropped rather than backpressuring the recorder.
const clientBuffer = 64

// event is the wire envelope for streamed events.
type event struct {
	Kind      string      `json:"kind"` // "audit" or "ingestion"
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Handler fans audit and ingestion events out to connected clients,
// scoped to the client's tenant.
type Handler struct {
	mu      sync.Mutex
	clients map[chan event]string // channel -> tenant
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a stream handler wired to the audit recorder and
// document ingestor.
func NewHandler(recorder *audit.Recorder, ingestor *document.Ingestor, logger *logging.Logger) *Handler {
	h := &Handler{
		clients: make(map[chan event]string),
		logger:  logger.Named("ws"),
	}
	recorder.Subscribe(func(entry audit.Entry) {
		h.broadcast(entry.TenantID, event{
			Kind:      "audit",
			Payload:   entry,
			Timestamp: time.Now().Unix(),
		})
	})
	ingestor.Subscribe(func(e document.IngestionEvent) {
		h.broadcast(e.TenantID, event{
			Kind:      "ingestion",
			Payload:   e,
			Timestamp: time.Now().Unix(),
		})
	})
	return h
}

// WithMetrics attaches a metrics sink.
func (h *Handler) WithMetrics(m *monitoring.Metrics) *Handler {
	h.metrics = m
	return h
}

func (h *Handler) broadcast(tenantID string, e event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch, tenant := range h.clients {
		if tenant != tenantID {
			continue
		}
		select {
		case ch <- e:
		default:
			// Slow client; skip this event for it.
		}
	}
}

// HandleConnection handles GET /stream: upgrades the connection and
// forwards the tenant's events until the client disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	tenantID := c.GetHeader("X-Tenant-ID")
	if tenantID == "" {
		tenantID = c.Query("tenant")
	}
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ch := make(chan event, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = tenantID
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
	defer func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
		if h.metrics != nil {
			h.metrics.WSConnections.Dec()
		}
	}()

	welcome := map[string]interface{}{
		"kind":      "system",
		"message":   "connected",
		"timestamp": time.Now().Unix(),
	}
	if err := conn.WriteJSON(welcome); err != nil {
		// Client went away during the upgrade; skip the event loop.
		return
	}

	// Reader goroutine: consume control frames and detect disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e := <-ch:
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
