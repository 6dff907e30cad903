package chat

import (
	"TeleClinic/models"
	"TeleClinic/utils"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MessageStore persists chat messages with their per-chat sequence numbers.
type MessageStore interface {
	Append(ctx context.Context, chatID string, senderID int64, content, imageURL string) (*models.ChatMessage, error)
	History(ctx context.Context, chatID string, limit int) ([]models.ChatMessage, error)
}

// Authorizer decides whether a user may join an appointment's chat.
type Authorizer interface {
	CanAccessChat(ctx context.Context, chatID string, userID int64, role string) (bool, error)
}

const historyLimit = 100

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are already filtered by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Envelope is the wire frame for every chat event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type joinPayload struct {
	AppointmentCode string `json:"appointment_code"`
}

type sendPayload struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

type statusPayload struct {
	DoctorUserID int64 `json:"doctor_user_id"`
	Online       bool  `json:"online"`
}

// Handler upgrades connections and speaks the chat protocol:
// join:chat -> chat:history, message:send -> message:receive, doctor:status,
// leave.
type Handler struct {
	hub        *Hub
	store      MessageStore
	authorizer Authorizer
}

func NewHandler(hub *Hub, store MessageStore, authorizer Authorizer) *Handler {
	return &Handler{hub: hub, store: store, authorizer: authorizer}
}

// ServeWS authenticates the accessToken query parameter and runs the
// connection loop.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("accessToken")
	if token == "" {
		http.Error(w, "Missing access token", http.StatusUnauthorized)
		return
	}
	claims, err := utils.ValidateToken(token, "Admin", "Doctor", "Patient")
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		_ = conn.Close()
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Role:   claims.Role,
		Send:   make(chan []byte, 16),
	}

	go h.writeLoop(conn, client)
	h.readLoop(r.Context(), conn, client)
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, client *Client) {
	defer func() {
		if client.ChatID != "" {
			h.hub.Unregister(client)
		} else {
			close(client.Send)
		}
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}

		switch env.Event {
		case "join:chat":
			h.handleJoin(ctx, client, env.Data)
		case "message:send":
			h.handleSend(ctx, client, env.Data)
		case "leave":
			return
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, client *Client) {
	for payload := range client.Send {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Handler) handleJoin(ctx context.Context, client *Client, data json.RawMessage) {
	var payload joinPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.AppointmentCode == "" {
		h.sendError(client, "invalid join request")
		return
	}
	chatID := models.ChatID(payload.AppointmentCode)

	ok, err := h.authorizer.CanAccessChat(ctx, chatID, client.UserID, client.Role)
	if err != nil {
		h.sendError(client, "chat lookup failed")
		return
	}
	if !ok {
		h.sendError(client, "not a participant of this chat")
		return
	}

	if client.ChatID == "" {
		client.ChatID = chatID
		h.hub.Register(client)
	} else {
		h.hub.Move(client, chatID)
	}

	history, err := h.store.History(ctx, chatID, historyLimit)
	if err != nil {
		log.Printf("failed to load chat history for %s: %v", chatID, err)
		h.sendError(client, "failed to load history")
		return
	}
	h.sendEvent(client, "chat:history", history)
}

func (h *Handler) handleSend(ctx context.Context, client *Client, data json.RawMessage) {
	if client.ChatID == "" {
		h.sendError(client, "join a chat first")
		return
	}
	var payload sendPayload
	if err := json.Unmarshal(data, &payload); err != nil || (payload.Content == "" && payload.ImageURL == "") {
		h.sendError(client, "empty message")
		return
	}

	msg, err := h.store.Append(ctx, client.ChatID, client.UserID, payload.Content, payload.ImageURL)
	if err != nil {
		log.Printf("failed to persist chat message for %s: %v", client.ChatID, err)
		h.sendError(client, "message not delivered")
		return
	}

	out, err := json.Marshal(Envelope{Event: "message:receive", Data: mustMarshal(msg)})
	if err != nil {
		return
	}
	h.hub.Broadcast(client.ChatID, out)
}

// BroadcastDoctorStatus pushes a presence change to a chat.
func (h *Handler) BroadcastDoctorStatus(chatID string, doctorUserID int64) {
	payload := statusPayload{DoctorUserID: doctorUserID, Online: h.hub.DoctorOnline(doctorUserID)}
	out, err := json.Marshal(Envelope{Event: "doctor:status", Data: mustMarshal(payload)})
	if err != nil {
		return
	}
	h.hub.Broadcast(chatID, out)
}

func (h *Handler) sendEvent(client *Client, event string, data interface{}) {
	out, err := json.Marshal(Envelope{Event: event, Data: mustMarshal(data)})
	if err != nil {
		return
	}
	select {
	case client.Send <- out:
	default:
	}
}

func (h *Handler) sendError(client *Client, message string) {
	h.sendEvent(client, "error", map[string]string{"message": message})
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
