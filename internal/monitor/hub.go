package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/radioscan/p25rx/internal/logger"
	"github.com/radioscan/p25rx/internal/p25"
)

// Event is one decoded message rendered for websocket clients.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	DUID      string    `json:"duid"`
	NAC       int       `json:"nac"`
	Opcode    string    `json:"opcode,omitempty"`
	Summary   string    `json:"summary"`
	Payload   string    `json:"payload"`
}

// Marshal converts an event to JSON bytes
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Client represents a websocket client connection
type Client struct {
	id       string
	conn     *websocket.Conn
	messages chan []byte
}

// Hub fans decoded messages out to connected websocket clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	log        *logger.Logger
	mu         sync.RWMutex
	nextClient int
}

// NewHub creates a new hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub event loop and blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("websocket client registered", logger.String("client_id", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.messages)
			}
			h.mu.Unlock()
			h.log.Debug("websocket client unregistered", logger.String("client_id", client.id))

		case event := <-h.broadcast:
			data, err := event.Marshal()
			if err != nil {
				h.log.Error("failed to marshal event", logger.Err(err))
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.messages <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.messages)
				client.conn.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Receive implements p25.MessageListener: each decoded message becomes a
// broadcast event. Messages are dropped when the broadcast queue is full so
// the ingest path never blocks on slow clients.
func (h *Hub) Receive(msg p25.Message) {
	event := Event{
		Type:      "message",
		Timestamp: time.Now(),
		DUID:      msg.DUID().String(),
		NAC:       msg.NAC(),
		Summary:   msg.String(),
		Payload:   msg.Bits().String(),
	}
	if tsbk, ok := msg.(p25.TSBK); ok {
		event.Opcode = tsbk.Opcode().String()
	}

	select {
	case h.broadcast <- event:
	default:
		h.log.Debug("monitor broadcast queue full, event dropped")
	}
}

// addClient registers a connection and starts its writer.
func (h *Hub) addClient(conn *websocket.Conn) *Client {
	h.mu.Lock()
	h.nextClient++
	id := fmt.Sprintf("client-%d", h.nextClient)
	h.mu.Unlock()

	client := &Client{
		id:       id,
		conn:     conn,
		messages: make(chan []byte, 64),
	}
	h.register <- client

	go client.writePump()
	return client
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for data := range c.messages {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
