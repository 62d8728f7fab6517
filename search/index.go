package search

import (
	"context"
	"fmt"
	"log"
	"time"

	"tripsage/db"
	"tripsage/models"
	"tripsage/rdx"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

// -------------------------
// Redis inverted index
// -------------------------

func invertedKey(token string) string { return "inverted:trip:" + token }

// IndexEntity applies one indexing event. Called by the mq worker, not
// from request handlers.
func IndexEntity(ctx context.Context, event models.Index) error {
	if event.EntityType != "trip" {
		return nil
	}

	switch event.Method {
	case "POST", "PUT":
		return indexTrip(ctx, event.EntityId)
	case "DELETE":
		return removeTrip(ctx, event.EntityId)
	default:
		return fmt.Errorf("unknown index method %q", event.Method)
	}
}

func tripTokens(trip models.Trip) []string {
	return Tokenize(trip.Name + " " + trip.Destination + " " + trip.Description)
}

func indexTrip(ctx context.Context, tripID string) error {
	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": tripID, "deleted": bson.M{"$ne": true}}).Decode(&trip)
	if err != nil {
		return fmt.Errorf("index fetch trip %s: %w", tripID, err)
	}

	score := float64(trip.CreatedAt.UnixNano())
	if score == 0 {
		score = float64(time.Now().UnixNano())
	}

	pipe := rdx.Conn.Pipeline()
	for _, token := range tripTokens(trip) {
		pipe.ZAdd(ctx, invertedKey(token), redis.Z{Score: score, Member: trip.TripID})
	}
	AddDestinationPipeline(ctx, pipe, trip.Destination)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("index pipeline for trip %s: %w", tripID, err)
	}
	return nil
}

func removeTrip(ctx context.Context, tripID string) error {
	// the document may already be gone; tokens come from a soft-deleted read
	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"tripid": tripID}).Decode(&trip)
	if err != nil {
		log.Printf("remove index: trip %s not found: %v", tripID, err)
		return nil
	}

	pipe := rdx.Conn.Pipeline()
	for _, token := range tripTokens(trip) {
		pipe.ZRem(ctx, invertedKey(token), trip.TripID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove pipeline for trip %s: %w", tripID, err)
	}
	return nil
}

func getIndexIDsForToken(ctx context.Context, token string) ([]string, error) {
	return rdx.Conn.ZRevRange(ctx, invertedKey(token), 0, -1).Result()
}
