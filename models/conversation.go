package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is an AI assistant thread, optionally pinned to a trip.
type Conversation struct {
	ConversationID string    `json:"conversationid" bson:"conversationid"`
	UserID         string    `json:"user_id" bson:"user_id"`
	TripID         string    `json:"trip_id,omitempty" bson:"trip_id,omitempty"`
	Title          string    `json:"title" bson:"title"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
	Deleted        bool      `json:"-" bson:"deleted,omitempty"`
}

type ChatMessage struct {
	MessageID      string `json:"messageid" bson:"messageid"`
	ConversationID string `json:"conversationid" bson:"conversationid"`
	SenderID       string `json:"sender_id,omitempty" bson:"sender_id,omitempty"`
	Role           string `json:"role" bson:"role"`
	Content        string `json:"content" bson:"content"`
	Timestamp      int64  `json:"timestamp" bson:"timestamp"`
}
