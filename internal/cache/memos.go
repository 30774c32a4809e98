// Package cache provides the Redis-backed memo list cache. The board is
// read-heavy and at most seven rows, so the whole listing is cached as one
// JSON value and dropped on every write.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"memoboard/api/internal/store"
)

const listKey = "memos:list"

// DefaultTTL matches the 60-second freshness the API advertises to
// clients.
const DefaultTTL = 60 * time.Second

// MemoCache caches the memo listing in Redis.
type MemoCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMemoCache(redisURL string) (*MemoCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &MemoCache{client: client, ttl: DefaultTTL}, nil
}

// NewMemoCacheWithClient creates a cache from an existing Redis client.
func NewMemoCacheWithClient(client *redis.Client) *MemoCache {
	return &MemoCache{client: client, ttl: DefaultTTL}
}

// Get returns the cached listing and whether it was present. A corrupt
// payload counts as a miss and is dropped.
func (c *MemoCache) Get(ctx context.Context) ([]store.Memo, bool) {
	payload, err := c.client.Get(ctx, listKey).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache: get memo list: %v", err)
		return nil, false
	}

	var memos []store.Memo
	if err := json.Unmarshal([]byte(payload), &memos); err != nil {
		log.Printf("cache: corrupt memo list payload, dropping: %v", err)
		_ = c.client.Del(ctx, listKey).Err()
		return nil, false
	}
	return memos, true
}

// Set stores the listing for the cache TTL.
func (c *MemoCache) Set(ctx context.Context, memos []store.Memo) error {
	payload, err := json.Marshal(memos)
	if err != nil {
		return fmt.Errorf("marshal memo list: %w", err)
	}
	if err := c.client.Set(ctx, listKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set memo list: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing. Every write path calls this.
func (c *MemoCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, listKey).Err(); err != nil {
		return fmt.Errorf("invalidate memo list: %w", err)
	}
	return nil
}

func (c *MemoCache) Close() error {
	return c.client.Close()
}

func (c *MemoCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
