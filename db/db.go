package db

import (
	"context"
	"log"
	"time"

	"tripsage/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	UserCollection          *mongo.Collection
	TripsCollection         *mongo.Collection
	FlightsCollection       *mongo.Collection
	StaysCollection         *mongo.Collection
	BookingsCollection      *mongo.Collection
	ConversationsCollection *mongo.Collection
	MessagesCollection      *mongo.Collection
	Client                  *mongo.Client
)

// Init connects to MongoDB and binds the collection handles. Call once
// from main after config.Load.
func Init(cfg *config.Config) {
	clientOptions := options.Client().ApplyURI(cfg.DatabaseURL)

	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database(cfg.DatabaseName)
	UserCollection = database.Collection("users")
	TripsCollection = database.Collection("trips")
	FlightsCollection = database.Collection("flights")
	StaysCollection = database.Collection("accommodations")
	BookingsCollection = database.Collection("bookings")
	ConversationsCollection = database.Collection("conversations")
	MessagesCollection = database.Collection("messages")
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client during shutdown.
func Close(ctx context.Context) {
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		log.Println("MongoDB disconnect error:", err)
	}
}
