package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache miss")
)

// Quiz definitions change rarely relative to how often they are read
// for taking and scoring, so they get the longest TTL.
const (
	QuizTTL   = 10 * time.Minute
	ExistsTTL = 2 * time.Minute
)

// CacheHelper wraps a redis client with JSON marshaling and a key
// prefix. A nil client degrades every operation to a no-op or miss.
type CacheHelper struct {
	client *redis.Client
	prefix string
}

func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{client: client, prefix: prefix}
}

func (c *CacheHelper) key(key string) string {
	return c.prefix + key
}

func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal: %w", err)
	}
	return nil
}

func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

func (c *CacheHelper) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, ErrCacheNotAvailable
	}
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists: %w", err)
	}
	return n > 0, nil
}

// CacheOrExecute is the cache-aside read path: serve the cached value
// when present, otherwise fetch, return, and backfill the cache off
// the request path.
func (c *CacheHelper) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheNotAvailable) {
		slog.InfoContext(ctx, "cache get failed, falling through to fetch", "key", key, "error", err)
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	go func() {
		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := c.Set(setCtx, key, value, ttl); err != nil {
			slog.Error("cache backfill failed", "key", key, "error", err)
		}
	}()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal fetched value: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// QuizKey names the cached full quiz graph for one quiz.
func QuizKey(id uint) string {
	return fmt.Sprintf("id:%d", id)
}

// CacheManager groups the per-concern helpers handed to repositories.
type CacheManager struct {
	Quiz *CacheHelper
	Fast *CacheHelper
}

func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		Quiz: NewCacheHelper(client, "quiz:"),
		Fast: NewCacheHelper(client, "fast:"),
	}
}

func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if cm.Fast.client == nil {
		return ErrCacheNotAvailable
	}
	if _, err := cm.Fast.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("cache health check: %w", err)
	}
	return nil
}
