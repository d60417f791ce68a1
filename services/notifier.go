// services/notifier.go - Push notification channel over websockets
package services

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Event is one push notification delivered to a connected client.
type Event struct {
	Type    string      `json:"type"` // achievement_unlocked, challenge_completed
	Message string      `json:"message"`
	Payload interface{} `json:"payload,omitempty"`
}

// Notifier fans events out to a user's open websocket connections. It holds
// connections only, never entity state.
type Notifier struct {
	mu    sync.RWMutex
	conns map[uint]map[*websocket.Conn]bool
}

var notifier = &Notifier{conns: make(map[uint]map[*websocket.Conn]bool)}

// GetNotifier returns the process-wide notifier.
func GetNotifier() *Notifier {
	return notifier
}

// Register attaches a connection for the user and blocks until the client
// disconnects. Call from inside a websocket handler.
func (n *Notifier) Register(userID uint, conn *websocket.Conn) {
	n.mu.Lock()
	if n.conns[userID] == nil {
		n.conns[userID] = make(map[*websocket.Conn]bool)
	}
	n.conns[userID][conn] = true
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		delete(n.conns[userID], conn)
		if len(n.conns[userID]) == 0 {
			delete(n.conns, userID)
		}
		n.mu.Unlock()
		conn.Close()
	}()

	// Drain client frames; the channel is push-only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify delivers an event to every open connection of the user. Delivery is
// best-effort; a dead connection is dropped on its own read loop.
func (n *Notifier) Notify(userID uint, event Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for conn := range n.conns[userID] {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("notifier: failed to push to user %d: %v", userID, err)
		}
	}
}
