package assistant

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"tripsage/db"
	"tripsage/middleware"
	"tripsage/models"
	"tripsage/ops"
	"tripsage/rdx"
	"tripsage/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WsClient struct {
	Conn           *websocket.Conn
	Send           chan []byte
	ConversationID string
	UserID         string
}

type broadcastMsg struct {
	ConversationID string
	Data           []byte
}

// Hub fans chat messages out to every connection open on the same
// conversation.
type Hub struct {
	rooms      map[string]map[*WsClient]bool
	register   chan *WsClient
	unregister chan *WsClient
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*WsClient]bool),
		register:   make(chan *WsClient),
		unregister: make(chan *WsClient),
		broadcast:  make(chan broadcastMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.ConversationID] == nil {
				h.rooms[c.ConversationID] = make(map[*WsClient]bool)
			}
			h.rooms[c.ConversationID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.ConversationID]; conns != nil {
				// the broadcast drop path may have removed and closed
				// this client already
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.Send)
				}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.ConversationID] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.ConversationID], c)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type inboundPayload struct {
	Action  string `json:"action"`
	Content string `json:"content,omitempty"`
}

type outboundPayload struct {
	Action         string `json:"action"`
	ID             string `json:"id"`
	ConversationID string `json:"conversationid,omitempty"`
	SenderID       string `json:"senderId,omitempty"`
	Role           string `json:"role,omitempty"`
	Content        string `json:"content,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

func outbound(m models.ChatMessage) outboundPayload {
	return outboundPayload{
		Action:         "chat",
		ID:             m.MessageID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Role:           m.Role,
		Content:        m.Content,
		Timestamp:      m.Timestamp,
	}
}

// WebSocketHandler upgrades GET /ws/assistant/:conversationid.
// Browsers cannot set headers on websocket requests, so the access
// token comes in the token query parameter.
func WebSocketHandler(hub *Hub, client *Client) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := middleware.ValidateRawToken(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		userID := claims.UserID

		conversationID := ps.ByName("conversationid")
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		if _, ok := loadOwnConversation(ctx, conversationID, userID); !ok {
			cancel()
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		cancel()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		wc := &WsClient{
			Conn:           conn,
			Send:           make(chan []byte, 256),
			ConversationID: conversationID,
			UserID:         userID,
		}

		// send the last 30 messages, oldest first
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			opts := options.Find().
				SetSort(bson.D{{Key: "timestamp", Value: -1}}).
				SetLimit(30)

			cur, err := db.MessagesCollection.Find(ctx, bson.M{"conversationid": conversationID}, opts)
			if err != nil {
				log.Println("history find:", err)
				return
			}
			defer cur.Close(ctx)

			var history []models.ChatMessage
			if err := cur.All(ctx, &history); err != nil {
				log.Println("history decode:", err)
				return
			}
			for i := len(history) - 1; i >= 0; i-- {
				if data, err := json.Marshal(outbound(history[i])); err == nil {
					wc.Send <- data
				}
			}
			for _, m := range rdx.BufferedMessages(conversationID) {
				if data, err := json.Marshal(outbound(m)); err == nil {
					wc.Send <- data
				}
			}
		}()

		hub.register <- wc
		go writePump(wc)
		go readPump(wc, hub, client)
	}
}

func writePump(c *WsClient) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *WsClient, hub *Hub, client *Client) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inboundPayload
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("invalid payload:", err)
			continue
		}
		if in.Action != "chat" || in.Content == "" {
			log.Println("unknown action:", in.Action)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)

		userMsg := models.ChatMessage{
			MessageID:      utils.GetUUID(),
			ConversationID: c.ConversationID,
			SenderID:       c.UserID,
			Role:           models.RoleUser,
			Content:        in.Content,
			Timestamp:      time.Now().UnixMilli(),
		}
		persistMessage(ctx, userMsg)
		if data, err := json.Marshal(outbound(userMsg)); err == nil {
			hub.broadcast <- broadcastMsg{ConversationID: c.ConversationID, Data: data}
		}

		reply, err := client.Complete(ctx, recentHistory(ctx, c.ConversationID))
		if err != nil {
			ops.Alert("ai_provider_error", ops.SeverityError, "assistant", map[string]any{
				"conversationid": c.ConversationID,
				"error":          err.Error(),
			})
			evt := outboundPayload{Action: "error", Content: "Assistant is unavailable", Timestamp: time.Now().UnixMilli()}
			if data, err := json.Marshal(evt); err == nil {
				hub.broadcast <- broadcastMsg{ConversationID: c.ConversationID, Data: data}
			}
			cancel()
			continue
		}

		assistantMsg := models.ChatMessage{
			MessageID:      utils.GetUUID(),
			ConversationID: c.ConversationID,
			SenderID:       "assistant",
			Role:           models.RoleAssistant,
			Content:        reply,
			Timestamp:      time.Now().UnixMilli(),
		}
		persistMessage(ctx, assistantMsg)
		if data, err := json.Marshal(outbound(assistantMsg)); err == nil {
			hub.broadcast <- broadcastMsg{ConversationID: c.ConversationID, Data: data}
		}
		cancel()
	}
}
