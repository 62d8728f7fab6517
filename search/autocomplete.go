package search

import (
	"context"
	"strings"

	"tripsage/rdx"

	"github.com/redis/go-redis/v9"
)

const destinationKey = "autocomplete:destinations"

// AddDestinationPipeline queues a destination into the autocomplete
// sorted set. Score 0 for all members gives lexicographic range
// queries.
func AddDestinationPipeline(ctx context.Context, pipe redis.Pipeliner, destination string) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return
	}
	pipe.ZAdd(ctx, destinationKey, redis.Z{Score: 0, Member: strings.ToLower(destination)})
}

// SuggestDestinations returns up to limit destinations starting with
// prefix.
func SuggestDestinations(ctx context.Context, prefix string, limit int64) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return []string{}, nil
	}

	results, err := rdx.Conn.ZRangeByLex(ctx, destinationKey, &redis.ZRangeBy{
		Min:   "[" + prefix,
		Max:   "[" + prefix + "\xff",
		Count: limit,
	}).Result()
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []string{}
	}
	return results, nil
}
