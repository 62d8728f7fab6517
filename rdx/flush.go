package rdx

import (
	"encoding/json"
	"log"
	"time"

	"tripsage/db"
	"tripsage/globals"
	"tripsage/models"
)

// BufferKey is the redis list holding not-yet-persisted messages for a
// conversation.
func BufferKey(conversationID string) string {
	return "convo:" + conversationID + ":messages"
}

// BufferMessage appends a chat message to the conversation's redis
// buffer. Best effort: on a degraded cache the caller is expected to
// write straight to the primary store.
func BufferMessage(m models.ChatMessage) bool {
	data, err := json.Marshal(m)
	if err != nil {
		log.Println("buffer encode error:", err)
		return false
	}
	if err := Conn.RPush(globals.Ctx, BufferKey(m.ConversationID), data).Err(); err != nil {
		degraded("RPUSH", err)
		return false
	}
	return true
}

// BufferedMessages returns the messages still sitting in a
// conversation's redis buffer, oldest first. Empty on a degraded
// cache.
func BufferedMessages(conversationID string) []models.ChatMessage {
	raw, err := Conn.LRange(globals.Ctx, BufferKey(conversationID), 0, -1).Result()
	if err != nil {
		degraded("LRANGE", err)
		return nil
	}
	out := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			log.Println("buffer decode error:", err)
			continue
		}
		out = append(out, m)
	}
	return out
}

// flushBuffers drains every conversation buffer through persist. Only
// the entries read in this pass are trimmed, so messages pushed while
// persist is in flight stay buffered for the next pass.
func flushBuffers(persist func([]interface{}) error) {
	keys, err := Conn.Keys(globals.Ctx, "convo:*:messages").Result()
	if err != nil {
		degraded("KEYS", err)
		return
	}
	for _, key := range keys {
		msgs, err := Conn.LRange(globals.Ctx, key, 0, -1).Result()
		if err != nil {
			log.Println("Redis LRange error:", err)
			continue
		}
		if len(msgs) == 0 {
			continue
		}
		var bulk []interface{}
		for _, raw := range msgs {
			var m models.ChatMessage
			if err := json.Unmarshal([]byte(raw), &m); err != nil {
				log.Println("JSON unmarshal error:", err)
				continue
			}
			bulk = append(bulk, m)
		}
		if len(bulk) > 0 {
			if err := persist(bulk); err != nil {
				log.Println("message persist error:", err)
				continue
			}
		}
		Conn.LTrim(globals.Ctx, key, int64(len(msgs)), -1)
	}
}

// FlushBufferedMessages moves buffered conversation messages from
// redis to MongoDB in bulk, every 30 seconds.
func FlushBufferedMessages() {
	ticker := time.NewTicker(30 * time.Second)
	for range ticker.C {
		flushBuffers(func(bulk []interface{}) error {
			_, err := db.MessagesCollection.InsertMany(globals.Ctx, bulk)
			return err
		})
	}
}
