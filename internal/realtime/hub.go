// Package realtime pushes row-change events to connected dashboards
// over WebSocket. Each client authenticates with a token query
// parameter on upgrade and only ever receives events addressed to its
// own user id.
package realtime

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"localride/internal/middleware"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// Event is a single change-feed frame. Types in use:
// "ride.updated", "notification.created", "driver_profile.updated".
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type frame struct {
	userID uint
	event  Event
}

// Hub tracks open connections per user and fans events out to them.
type Hub struct {
	clients   map[uint]map[*websocket.Conn]bool
	broadcast chan frame
	mu        sync.Mutex
}

// NewHub creates a Hub and starts its broadcast goroutine.
func NewHub() *Hub {
	hub := &Hub{
		clients:   make(map[uint]map[*websocket.Conn]bool),
		broadcast: make(chan frame, 100),
	}
	go hub.run()
	return hub
}

// run delivers each queued frame to every connection of the addressed user.
func (h *Hub) run() {
	for f := range h.broadcast {
		h.mu.Lock()
		if conns, exists := h.clients[f.userID]; exists {
			for conn := range conns {
				go func(c *websocket.Conn, userID uint, ev Event) {
					if err := c.WriteJSON(ev); err != nil {
						if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
							h.UnregisterClient(userID, c)
						} else {
							logrus.WithError(err).WithFields(logrus.Fields{
								"user_id":  userID,
								"conn_ptr": fmt.Sprintf("%p", c),
							}).Warn("Failed to send feed event to client.")
						}
					}
				}(conn, f.userID, f.event)
			}
		}
		h.mu.Unlock()
	}
}

// RegisterClient adds a connection for a user.
func (h *Hub) RegisterClient(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with feed hub.")
}

// UnregisterClient removes a disconnected client connection.
func (h *Hub) UnregisterClient(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Publish queues an event for a user. Non-blocking: if the broadcast
// buffer is full the event is dropped with a warning, the same way a
// missed poll would be absorbed by the next re-query.
func (h *Hub) Publish(userID uint, eventType string, payload interface{}) {
	select {
	case h.broadcast <- frame{userID: userID, event: Event{Type: eventType, Payload: payload}}:
	default:
		logrus.Warn("Feed broadcast channel full, dropping event.")
	}
}

// HandleFeed upgrades GET /ws/feed?token=... and holds the connection
// open until the client goes away. Browsers cannot set an Authorization
// header on a WebSocket request, hence the query-parameter token.
func (h *Hub) HandleFeed(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}

	claims, err := middleware.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade feed WebSocket connection")
		return
	}

	h.RegisterClient(claims.UserID, conn)
	defer func() {
		h.UnregisterClient(claims.UserID, conn)
		conn.Close()
	}()

	// The feed is one-way. Reading drains control frames and detects
	// the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("user_id", claims.UserID).Debug("Feed WebSocket read error")
			}
			break
		}
	}
}
