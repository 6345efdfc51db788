package database

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis holds revoked tokens between logout and token expiry. When REDIS_ADDR
// is unset the client stays nil and logout becomes a no-op.
var Redis *redis.Client

func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, token blacklist disabled")
		return
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			db = parsed
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection error:", err)
	}

	Redis = client
	log.Println("Connected to Redis")
}

func BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if Redis == nil || ttl <= 0 {
		return nil
	}
	return Redis.Set(ctx, "blacklist:"+token, "1", ttl).Err()
}

func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if Redis == nil {
		return false
	}
	n, err := Redis.Exists(ctx, "blacklist:"+token).Result()
	if err != nil {
		log.Println("Redis blacklist check error:", err)
		return false
	}
	return n > 0
}
