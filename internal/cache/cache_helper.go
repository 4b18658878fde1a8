package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache errors
var (
	ErrCacheNotAvailable = fmt.Errorf("cache not available")
	ErrCacheNotFound     = fmt.Errorf("cache not found")
)

// CacheHelper provides common caching operations for repositories.
// A nil Redis client degrades gracefully: reads miss, writes no-op.
type CacheHelper struct {
	client *redis.Client
	prefix string
}

// NewCacheHelper creates a new cache helper instance
func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{
		client: client,
		prefix: prefix,
	}
}

// CacheConfig defines cache configuration for different data types
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

var (
	// Assessment metadata changes rarely once published
	AssessmentCacheConfig = CacheConfig{
		TTL:    5 * time.Minute,
		Prefix: "assessment:",
	}

	// Results are immutable after submission
	ResultCacheConfig = CacheConfig{
		TTL:    10 * time.Minute,
		Prefix: "result:",
	}

	// Stats cache for expensive aggregate queries
	StatsCacheConfig = CacheConfig{
		TTL:    2 * time.Minute,
		Prefix: "stats:",
	}

	// User directory lookups hit the external identity provider
	UserCacheConfig = CacheConfig{
		TTL:    15 * time.Minute,
		Prefix: "user:",
	}
)

// GetCacheKey generates a cache key with prefix
func (c *CacheHelper) GetCacheKey(key string) string {
	return c.prefix + key
}

// Get retrieves and unmarshals data from cache
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.GetCacheKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

// Set marshals and stores data in cache
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	return c.client.Set(ctx, c.GetCacheKey(key), data, ttl).Err()
}

// Delete removes keys from cache
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = c.GetCacheKey(key)
	}

	return c.client.Del(ctx, cacheKeys...).Err()
}

// Exists checks if a key exists in cache
func (c *CacheHelper) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, ErrCacheNotAvailable
	}

	count, err := c.client.Exists(ctx, c.GetCacheKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return count > 0, nil
}

// InvalidatePattern removes all keys matching a pattern. Uses SCAN
// rather than KEYS so a large keyspace does not block Redis.
func (c *CacheHelper) InvalidatePattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}

	fullPattern := c.GetCacheKey(pattern)
	var cursor uint64
	var keys []string

	for {
		var scanKeys []string
		var err error
		scanKeys, cursor, err = c.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan pattern error: %w", err)
		}
		keys = append(keys, scanKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil
	}

	return c.client.Del(ctx, keys...).Err()
}

// CacheOrExecute implements the cache-aside pattern: return the cached
// value when present, otherwise run fetchFunc and cache its result.
// The cache write happens off the request path.
func (c *CacheHelper) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetchFunc func() (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}

	if err != ErrCacheNotFound && err != ErrCacheNotAvailable {
		slog.InfoContext(ctx, "cache get error, proceeding to fetch", "error", err, "key", key)
	}

	value, err := fetchFunc()
	if err != nil {
		return err
	}

	go func(parentCtx context.Context) {
		ctxWithTimeout, cancel := context.WithTimeout(context.WithoutCancel(parentCtx), 5*time.Second)
		defer cancel()
		if err := c.Set(ctxWithTimeout, key, value, ttl); err != nil {
			slog.Error("cache set error", "error", err, "key", key)
		}
	}(ctx)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal result error: %w", err)
	}

	return json.Unmarshal(data, dest)
}

// CacheManager manages the per-domain cache helpers
type CacheManager struct {
	Assessment *CacheHelper
	Result     *CacheHelper
	Stats      *CacheHelper
	User       *CacheHelper
}

// NewCacheManager creates cache manager with all cache helpers
func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		Assessment: NewCacheHelper(client, AssessmentCacheConfig.Prefix),
		Result:     NewCacheHelper(client, ResultCacheConfig.Prefix),
		Stats:      NewCacheHelper(client, StatsCacheConfig.Prefix),
		User:       NewCacheHelper(client, UserCacheConfig.Prefix),
	}
}

// HealthCheck verifies cache connectivity
func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if cm.Assessment.client == nil {
		return ErrCacheNotAvailable
	}

	if _, err := cm.Assessment.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}

	return nil
}

// InvalidateAssessment drops every cache entry touching one
// assessment, including its stats.
func (cm *CacheManager) InvalidateAssessment(ctx context.Context, assessmentID uint) {
	SafeInvalidatePattern(ctx, cm.Assessment, fmt.Sprintf("id:%d*", assessmentID))
	SafeInvalidatePattern(ctx, cm.Assessment, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("assessment:%d*", assessmentID))
}

// InvalidateResult drops result and stats caches after a submission.
func (cm *CacheManager) InvalidateResult(ctx context.Context, assessmentID uint, studentID string) {
	SafeInvalidatePattern(ctx, cm.Result, fmt.Sprintf("assessment:%d*", assessmentID))
	SafeInvalidatePattern(ctx, cm.Result, fmt.Sprintf("student:%s*", studentID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("assessment:%d*", assessmentID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("student:%s*", studentID))
}
