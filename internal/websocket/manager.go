package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	broadcastBuffer = 256
	clientBuffer    = 32
)

const (
	TypeUserPointsUpdate    = "user_points_update"
	TypeAchievementUnlocked = "achievement_unlocked"
	TypeLeaderboardUpdate   = "leaderboard_update"
)

type client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// message is addressed to every client when userID is empty.
type message struct {
	userID string
	data   []byte
}

// WebSocketManager fans messages out to connected clients. Only the write
// pump of a client writes to its connection.
type WebSocketManager struct {
	upgrader   websocket.Upgrader
	clients    map[*client]bool
	broadcast  chan message
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mutex      sync.Mutex
}

// NewWebSocketManager accepts upgrades from allowedOrigin, or from any
// origin when it is empty.
func NewWebSocketManager(allowedOrigin string) *WebSocketManager {
	return newManager(allowedOrigin, broadcastBuffer)
}

func newManager(allowedOrigin string, buffer int) *WebSocketManager {
	return &WebSocketManager{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
		clients:    make(map[*client]bool),
		broadcast:  make(chan message, buffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run dispatches until ctx is cancelled, then disconnects every client.
func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.done)

	for {
		select {
		case <-ctx.Done():
			manager.mutex.Lock()
			for c := range manager.clients {
				delete(manager.clients, c)
				close(c.send)
			}
			manager.mutex.Unlock()
			logger.Info("WebSocket manager stopped")
			return
		case c := <-manager.register:
			manager.mutex.Lock()
			manager.clients[c] = true
			manager.mutex.Unlock()
		case c := <-manager.unregister:
			manager.mutex.Lock()
			if _, ok := manager.clients[c]; ok {
				delete(manager.clients, c)
				close(c.send)
			}
			manager.mutex.Unlock()
		case msg := <-manager.broadcast:
			manager.mutex.Lock()
			for c := range manager.clients {
				if msg.userID != "" && c.userID != msg.userID {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					logger.Warn("Dropping slow websocket client")
					delete(manager.clients, c)
					close(c.send)
				}
			}
			manager.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of registered clients.
func (manager *WebSocketManager) ClientCount() int {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	return len(manager.clients)
}

// HandleWebSocket upgrades the request. userID, when set, also subscribes
// the connection to that user's private updates.
func (manager *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := manager.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade connection: %v", err)
		return
	}

	c := &client{conn: conn, userID: userID, send: make(chan []byte, clientBuffer)}
	select {
	case manager.register <- c:
	case <-manager.done:
		conn.Close()
		return
	}

	go manager.readPump(c)
	go manager.writePump(c)
}

func (manager *WebSocketManager) readPump(c *client) {
	defer func() {
		select {
		case manager.unregister <- c:
		case <-manager.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("Unexpected close error: %v", err)
			}
			return
		}
	}
}

func (manager *WebSocketManager) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Error("Error broadcasting message: %v", err)
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

// enqueue never blocks; a full queue drops the message.
func (manager *WebSocketManager) enqueue(operation, userID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &errors.WebSocketError{Operation: operation, Err: err}
	}

	select {
	case manager.broadcast <- message{userID: userID, data: data}:
		return nil
	default:
		return &errors.WebSocketError{Operation: operation, Err: fmt.Errorf("broadcast queue full")}
	}
}

func (manager *WebSocketManager) BroadcastUserPointsUpdate(userID string, points int64) error {
	return manager.enqueue("marshal user points update", userID, map[string]interface{}{
		"type":   TypeUserPointsUpdate,
		"userId": userID,
		"points": points,
	})
}

func (manager *WebSocketManager) BroadcastAchievementUnlocked(userID string, a db.Achievement) error {
	return manager.enqueue("marshal achievement unlocked", userID, map[string]interface{}{
		"type":   TypeAchievementUnlocked,
		"userId": userID,
		"achievement": map[string]interface{}{
			"id":          a.ID,
			"name":        a.Name,
			"description": a.Description,
			"icon":        a.Icon,
		},
	})
}

func (manager *WebSocketManager) BroadcastLeaderboardUpdate(entries []db.LeaderboardEntry) error {
	return manager.enqueue("marshal leaderboard update", "", map[string]interface{}{
		"type":        TypeLeaderboardUpdate,
		"leaderboard": entries,
	})
}
