package rdx

import (
	"errors"
	"testing"

	"tripsage/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func withTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := Conn
	Conn = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { Conn = prev })
}

func TestFlushBuffersKeepsInFlightMessages(t *testing.T) {
	withTestRedis(t)

	BufferMessage(models.ChatMessage{MessageID: "m1", ConversationID: "c1", Content: "one"})
	BufferMessage(models.ChatMessage{MessageID: "m2", ConversationID: "c1", Content: "two"})

	var persisted int
	flushBuffers(func(bulk []interface{}) error {
		persisted = len(bulk)
		// a message arriving while the bulk insert is in flight
		BufferMessage(models.ChatMessage{MessageID: "m3", ConversationID: "c1", Content: "three"})
		return nil
	})

	if persisted != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", persisted)
	}
	left := BufferedMessages("c1")
	if len(left) != 1 || left[0].MessageID != "m3" {
		t.Fatalf("expected only the in-flight message to remain, got %+v", left)
	}
}

func TestFlushBuffersKeepsBufferOnPersistError(t *testing.T) {
	withTestRedis(t)

	BufferMessage(models.ChatMessage{MessageID: "m1", ConversationID: "c1", Content: "one"})

	flushBuffers(func([]interface{}) error { return errors.New("primary store down") })

	if left := BufferedMessages("c1"); len(left) != 1 {
		t.Fatalf("buffer should be untouched after a failed persist, got %+v", left)
	}
}
