package chat

import (
	"log"
	"sync"
)

// Client is one websocket participant joined to a chat.
type Client struct {
	ID     string
	UserID int64
	Role   string
	ChatID string
	Send   chan []byte
}

// Hub tracks connected clients and routes payloads to everyone in a chat.
// Delivery is best-effort: a client with a full send buffer is skipped, and
// the persisted per-chat sequence lets it reconcile after reconnect.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	// doctor presence, keyed by user id; counts parallel connections.
	doctors map[int64]int
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		doctors: make(map[int64]int),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	if client.Role == "Doctor" {
		h.doctors[client.UserID]++
	}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
	if client.Role == "Doctor" {
		h.doctors[client.UserID]--
		if h.doctors[client.UserID] <= 0 {
			delete(h.doctors, client.UserID)
		}
	}
}

// Move switches a registered client to another chat without touching its
// send channel.
func (h *Hub) Move(client *Client, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.ChatID = chatID
}

// Broadcast delivers the payload to every client joined to the chat.
func (h *Hub) Broadcast(chatID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.ChatID != chatID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			log.Printf("drop chat message for client %s", client.ID)
		}
	}
}

// DoctorOnline reports whether the doctor has at least one live connection.
func (h *Hub) DoctorOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.doctors[userID] > 0
}
