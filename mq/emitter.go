package mq

import (
	"context"
	"encoding/json"
	"log"

	"tripsage/models"
	"tripsage/ops"
	"tripsage/rdx"
	"tripsage/search"
)

const indexingChannel = "indexing-events"

// Emit publishes an indexing event to Redis. Publish failures alert
// and drop; a request never blocks on indexing.
func Emit(ctx context.Context, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, indexingChannel, data).Err(); err != nil {
		ops.AlertThrottled("index_publish_failed", ops.SeverityWarning, "mq", map[string]any{
			"entity_type": content.EntityType,
			"entity_id":   content.EntityId,
			"error":       err.Error(),
		})
	}
}

// StartIndexingWorker subscribes to the indexing channel and applies
// each event to the search index. Run from main in its own goroutine.
func StartIndexingWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, indexingChannel)
	ch := sub.Channel()

	log.Println("[IndexingWorker] Listening for indexing events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[IndexingWorker] Failed to parse event: %v", err)
			continue
		}

		if err := search.IndexEntity(ctx, event); err != nil {
			log.Printf("[IndexingWorker] Index error: %v", err)
		}
	}
}
