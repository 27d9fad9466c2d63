package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// GetJSON fetches a cached JSON document; ok is false on miss or any error
// (a broken cache must never fail the request).
func GetJSON(ctx context.Context, rdb *redis.Client, key string) (string, bool) {
	s, err := rdb.Get(ctx, key).Result()
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}
