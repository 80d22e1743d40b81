// Package ws broadcasts resolved phases to spectator websocket clients.
// Spectators are read-only: inbound frames are drained and dropped.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"werewolf-arena/internal/game"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans phase events out to every connected spectator. It implements
// game.Observer, so a running loop can feed it directly.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[*client]bool{},
	}
}

// ServeHTTP lets the hub mount directly on a router.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.HandleWS(w, r)
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

// PhaseResolved implements game.Observer.
func (h *Hub) PhaseResolved(gameID string, rec game.PhaseRecord) {
	h.broadcast(PhaseMessage{Type: "phase", GameID: gameID, Phase: rec})
}

// GameFinished pushes the final result once the loop completes.
func (h *Hub) GameFinished(gameID string, result game.FinalResult) {
	h.broadcast(ResultMessage{Type: "final_result", GameID: gameID, Result: result})
}

func (h *Hub) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("marshal spectator message")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow consumer: drop it rather than stall the game.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) readLoop(c *client) {
	defer h.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// ClientCount is used by the health endpoint.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
