package stream

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"launchcontrol/internal/models"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second

	// Slow clients get this much buffered before being dropped.
	sendBufferSize = 16
)

// Hub fans persisted launch records out to connected websocket clients.
// Delivery is best effort: a client that cannot keep up is disconnected
// rather than allowed to block the rest.
type Hub struct {
	clients  sync.Map // map[*client]struct{}
	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// enqueue hands payload to the client's writer. Returns false when the
// client is gone or its buffer is full.
func (c *client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	c.conn.Close()
}

// NewHub creates an empty hub. Browsers do not apply CORS to websocket
// upgrades, so the ALLOWED_ORIGINS allowlist is enforced here too.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originAllowed,
		},
	}
}

// originAllowed admits requests without an Origin header (non-browser
// clients) and browser requests from ALLOWED_ORIGINS.
func originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}
	return false
}

// Serve upgrades the request and keeps the connection registered until
// the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.clients.Store(c, struct{}{})
	log.WithFields(log.Fields{
		"remote_addr": conn.RemoteAddr().String(),
	}).Info("Stream client connected")

	go h.writeLoop(c)
	go h.readLoop(c)
	return nil
}

// BroadcastLaunch sends one launch record to every connected client.
func (h *Hub) BroadcastLaunch(record *models.LaunchRecord) {
	payload, err := encodeLaunchMessage(record)
	if err != nil {
		log.WithFields(log.Fields{
			"base_mint": record.BaseMint,
			"error":     err.Error(),
		}).Error("Failed to encode launch message")
		return
	}

	h.clients.Range(func(key, _ interface{}) bool {
		c := key.(*client)
		if !c.enqueue(payload) {
			log.WithFields(log.Fields{
				"remote_addr": c.conn.RemoteAddr().String(),
			}).Warn("Dropping slow stream client")
			h.drop(c)
		}
		return true
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	count := 0
	h.clients.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}

func (h *Hub) drop(c *client) {
	h.clients.Delete(c)
	c.close()
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.drop(c)
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards inbound frames; the stream is one-way. It exists to
// notice the peer closing the connection.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
