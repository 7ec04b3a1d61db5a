package storage

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

func InitializeRedis() {
	// Get Redis URL from environment, fallback to localhost for development
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("⚠️  REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: "",
		DB:       0,
	})

	log.Println("🔧 Redis initialized with address:", redisURL)
}

// AcquireLock takes a short-lived advisory lock. Booking commits grab one per
// room type before validating so two writers cannot both pass a stale
// availability check. Returns false when another writer holds the key.
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if Redis == nil {
		// Redis is optional in tests; the row-level DB locks still apply.
		return true, nil
	}
	return Redis.SetNX(ctx, "lock:"+key, "1", ttl).Result()
}

// ReleaseLock drops an advisory lock before its TTL expires.
func ReleaseLock(ctx context.Context, key string) {
	if Redis == nil {
		return
	}
	Redis.Del(ctx, "lock:"+key)
}
