package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production
	},
}

// Event is broadcast to connected admin consoles after every
// successful catalog mutation so they can refresh without polling.
type Event struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// EventHub fans mutation events out to websocket clients. Connected
// clients map with mutex for thread safety.
type EventHub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
}

func NewEventHub() *EventHub {
	h := &EventHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 100), // Buffered channel to prevent blocking
	}
	go h.run()
	return h
}

func (h *EventHub) run() {
	for message := range h.broadcast {
		h.mu.Lock()
		for client := range h.clients {
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mu.Unlock()
	}
}

// Publish is nil-safe and never blocks a mutation on slow consumers;
// a full buffer drops the event.
func (h *EventHub) Publish(e Event) {
	if h == nil {
		return
	}
	message, err := json.Marshal(e)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
	}
}

// ServeWS upgrades the connection and parks it in the client set until
// the peer goes away. Inbound messages are ignored; the feed is one
// way.
func (h *EventHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Error upgrading:", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	log.Println("Admin feed connected:", conn.RemoteAddr())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			log.Println("Admin feed disconnected:", conn.RemoteAddr())
			return
		}
	}
}
