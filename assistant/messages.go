package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tripsage/db"
	"tripsage/models"
	"tripsage/ops"
	"tripsage/rdx"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// historyWindow caps how many prior messages go to the provider.
const historyWindow = 20

func persistMessage(ctx context.Context, m models.ChatMessage) {
	if rdx.BufferMessage(m) {
		return
	}
	if _, err := db.MessagesCollection.InsertOne(ctx, m); err != nil {
		ops.Alert("message_persist_failed", ops.SeverityError, "assistant", map[string]any{
			"conversationid": m.ConversationID,
			"error":          err.Error(),
		})
	}
}

// recentHistory returns the last historyWindow messages in provider
// format, oldest first. Buffered messages in redis are included after
// the persisted ones.
func recentHistory(ctx context.Context, conversationID string) []ProviderMessage {
	history := []ProviderMessage{}

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(historyWindow)
	cursor, err := db.MessagesCollection.Find(ctx, bson.M{"conversationid": conversationID}, opts)
	if err == nil {
		var stored []models.ChatMessage
		if cursor.All(ctx, &stored) == nil {
			for i := len(stored) - 1; i >= 0; i-- {
				history = append(history, ProviderMessage{Role: stored[i].Role, Content: stored[i].Content})
			}
		}
	}

	for _, m := range rdx.BufferedMessages(conversationID) {
		history = append(history, ProviderMessage{Role: m.Role, Content: m.Content})
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	return history
}

// SendMessageHandler returns the handle for
// POST /api/assistant/conversations/:conversationid/messages.
//
// The user message is persisted before the provider call, so a
// provider failure never loses it.
func SendMessageHandler(client *Client) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		userID := requestingUserID(r)
		if userID == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var input struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Content == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Message content is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
		defer cancel()

		conversationID := ps.ByName("conversationid")
		if _, ok := loadOwnConversation(ctx, conversationID, userID); !ok {
			utils.RespondWithError(w, http.StatusNotFound, "Conversation not found")
			return
		}

		userMsg := models.ChatMessage{
			MessageID:      utils.GetUUID(),
			ConversationID: conversationID,
			SenderID:       userID,
			Role:           models.RoleUser,
			Content:        input.Content,
			Timestamp:      time.Now().UnixMilli(),
		}
		persistMessage(ctx, userMsg)

		reply, err := client.Complete(ctx, recentHistory(ctx, conversationID))
		if err != nil {
			ops.Alert("ai_provider_error", ops.SeverityError, "assistant", map[string]any{
				"conversationid": conversationID,
				"error":          err.Error(),
			})
			utils.RespondWithError(w, http.StatusBadGateway, "Assistant is unavailable")
			return
		}

		assistantMsg := models.ChatMessage{
			MessageID:      utils.GetUUID(),
			ConversationID: conversationID,
			SenderID:       "assistant",
			Role:           models.RoleAssistant,
			Content:        reply,
			Timestamp:      time.Now().UnixMilli(),
		}
		persistMessage(ctx, assistantMsg)

		db.ConversationsCollection.UpdateOne(ctx,
			bson.M{"conversationid": conversationID},
			bson.M{"$set": bson.M{"updated_at": time.Now()}},
		)

		utils.RespondWithJSON(w, http.StatusOK, assistantMsg)
	}
}
