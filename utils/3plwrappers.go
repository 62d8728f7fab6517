package utils

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetUUID() string {
	return uuid.New().String()
}

// FindAndDecode runs Find with the given filter and decodes every
// document, returning an empty (non-nil) slice when nothing matches.
func FindAndDecode[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) ([]T, error) {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err == nil {
			out = append(out, item)
		}
	}
	return out, cursor.Err()
}
