package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tripsage/db"
	"tripsage/globals"
	"tripsage/models"
	"tripsage/rdx"
	"tripsage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func requestingUserID(r *http.Request) string {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	return userID
}

// loadOwnConversation fetches a live conversation owned by userID.
func loadOwnConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, bool) {
	var convo models.Conversation
	err := db.ConversationsCollection.FindOne(ctx, bson.M{
		"conversationid": conversationID,
		"user_id":        userID,
		"deleted":        bson.M{"$ne": true},
	}).Decode(&convo)
	if err != nil {
		return nil, false
	}
	return &convo, true
}

// POST /api/assistant/conversations
func CreateConversation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Title  string `json:"title"`
		TripID string `json:"trip_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.Title == "" {
		input.Title = "New conversation"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if input.TripID != "" {
		err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": input.TripID, "deleted": bson.M{"$ne": true}}).Err()
		if err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
			return
		}
	}

	now := time.Now()
	convo := models.Conversation{
		ConversationID: utils.GetUUID(),
		UserID:         userID,
		TripID:         input.TripID,
		Title:          input.Title,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := db.ConversationsCollection.InsertOne(ctx, convo); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating conversation")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, convo)
}

// GET /api/assistant/conversations
func GetConversations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "deleted": bson.M{"$ne": true}}
	convos, err := utils.FindAndDecode[models.Conversation](ctx, db.ConversationsCollection, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching conversations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, convos)
}

// PUT /api/assistant/conversations/:conversationid
func RenameConversation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	conversationID := ps.ByName("conversationid")
	if _, ok := loadOwnConversation(ctx, conversationID, userID); !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	_, err := db.ConversationsCollection.UpdateOne(ctx,
		bson.M{"conversationid": conversationID},
		bson.M{"$set": bson.M{"title": input.Title, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error renaming conversation")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Conversation renamed"})
}

// DELETE /api/assistant/conversations/:conversationid
func DeleteConversation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	conversationID := ps.ByName("conversationid")
	if _, ok := loadOwnConversation(ctx, conversationID, userID); !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	_, err := db.ConversationsCollection.UpdateOne(ctx,
		bson.M{"conversationid": conversationID},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting conversation")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Conversation deleted"})
}

// GET /api/assistant/conversations/:conversationid/messages
func GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	conversationID := ps.ByName("conversationid")
	if _, ok := loadOwnConversation(ctx, conversationID, userID); !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := db.MessagesCollection.Find(ctx, bson.M{"conversationid": conversationID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching messages")
		return
	}
	defer cursor.Close(ctx)

	messages := []models.ChatMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error decoding messages")
		return
	}

	// include messages not yet flushed from the cache buffer
	messages = append(messages, rdx.BufferedMessages(conversationID)...)

	utils.RespondWithJSON(w, http.StatusOK, messages)
}
