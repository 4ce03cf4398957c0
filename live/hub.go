package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"mapmeet/models"
)

type Client struct {
	Send   chan []byte
	UserID string
}

// outboundPayload is what we broadcast to every connected client.
type outboundPayload struct {
	Action    string        `json:"action"` // "created", "updated", "deleted"
	EventID   string        `json:"eventId"`
	Event     *models.Event `json:"event,omitempty"`
	Timestamp int64         `json:"timestamp"` // unix seconds
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
					close(c.Send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// EventCreated, EventUpdated and EventDeleted push change notifications
// to every connected client. All three are safe to call from handlers.

func (h *Hub) EventCreated(event *models.Event) {
	h.publish(outboundPayload{Action: "created", EventID: event.EventID, Event: event, Timestamp: time.Now().Unix()})
}

func (h *Hub) EventUpdated(event *models.Event) {
	h.publish(outboundPayload{Action: "updated", EventID: event.EventID, Event: event, Timestamp: time.Now().Unix()})
}

func (h *Hub) EventDeleted(eventID string) {
	h.publish(outboundPayload{Action: "deleted", EventID: eventID, Timestamp: time.Now().Unix()})
}

func (h *Hub) publish(out outboundPayload) {
	data, err := json.Marshal(out)
	if err != nil {
		log.Printf("live: marshal payload: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}
