package rdx

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tripsage/config"
	"tripsage/globals"
	"tripsage/ops"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init opens the cache connection. A dead cache is not fatal: every
// helper below degrades to a miss and emits a throttled alert, so the
// request path keeps working off the primary store.
func Init(cfg *config.Config) {
	Conn = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Conn.Ping(ctx).Err(); err != nil {
		log.Println("Redis unreachable at startup:", err)
		ops.Alert("cache_unreachable", ops.SeverityWarning, "rdx", map[string]any{"phase": "startup", "error": err.Error()})
	}
}

// Ping reports cache reachability for the health endpoint.
func Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return Conn.Ping(ctx).Err()
}

func degraded(op string, err error) {
	ops.AlertThrottled("cache_unreachable", ops.SeverityWarning, "rdx", map[string]any{"op": op, "error": err.Error()})
}

// --- Plain helpers. All of them treat cache errors as misses. ---

func RdxHset(hash, field, value string) error {
	if err := Conn.HSet(globals.Ctx, hash, field, value).Err(); err != nil {
		degraded("HSET", err)
		return err
	}
	return nil
}

func RdxHdel(hash, field string) error {
	if err := Conn.HDel(globals.Ctx, hash, field).Err(); err != nil {
		degraded("HDEL", err)
		return err
	}
	return nil
}

func RdxDel(key string) error {
	if err := Conn.Del(globals.Ctx, key).Err(); err != nil {
		degraded("DEL", err)
		return err
	}
	return nil
}

// GetJSON decodes a cached JSON value into out. Returns false on miss
// or on a degraded cache.
func GetJSON(ctx context.Context, key string, out any) bool {
	raw, err := Conn.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		degraded("GET", err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Println("cache decode error for", key, ":", err)
		return false
	}
	return true
}

// SetJSON stores v as JSON under key with the given TTL. Best effort.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Println("cache encode error for", key, ":", err)
		return
	}
	if err := Conn.Set(ctx, key, data, ttl).Err(); err != nil {
		degraded("SET", err)
	}
}
