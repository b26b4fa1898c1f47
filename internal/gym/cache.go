package gym

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"fitclub/internal/logger"
	"fitclub/internal/metrics"
)

// DetailCache memoizes gym details. It is injected into the service rather
// than held as package state, so tests can swap it out and deployments can
// choose Redis or in-process storage.
type DetailCache interface {
	Get(ctx context.Context, id int) (*Gym, bool)
	Set(ctx context.Context, id int, g *Gym)
	Invalidate(ctx context.Context, id int)
}

const cacheKeyPrefix = "gym:detail:"

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache returns a DetailCache backed by Redis with TTL eviction.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) DetailCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func cacheKey(id int) string {
	return cacheKeyPrefix + strconv.Itoa(id)
}

func (c *redisCache) Get(ctx context.Context, id int) (*Gym, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Errorf("Gym cache read failed for id %d: %v", id, err)
		}
		metrics.RecordGymCacheLookup("miss")
		return nil, false
	}

	var g Gym
	if err := json.Unmarshal(data, &g); err != nil {
		logger.Errorf("Gym cache entry corrupt for id %d: %v", id, err)
		metrics.RecordGymCacheLookup("miss")
		return nil, false
	}

	metrics.RecordGymCacheLookup("hit")
	return &g, true
}

func (c *redisCache) Set(ctx context.Context, id int, g *Gym) {
	data, err := json.Marshal(g)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(id), data, c.ttl).Err(); err != nil {
		logger.Errorf("Gym cache write failed for id %d: %v", id, err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, id int) {
	if err := c.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
		logger.Errorf("Gym cache invalidate failed for id %d: %v", id, err)
	}
}

type memoryEntry struct {
	gym     Gym
	expires time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[int]memoryEntry
	ttl     time.Duration
}

// NewMemoryCache returns an in-process DetailCache for cache-less
// deployments and tests.
func NewMemoryCache(ttl time.Duration) DetailCache {
	return &memoryCache{
		entries: make(map[int]memoryEntry),
		ttl:     ttl,
	}
}

func (c *memoryCache) Get(_ context.Context, id int) (*Gym, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expires) {
		metrics.RecordGymCacheLookup("miss")
		return nil, false
	}

	metrics.RecordGymCacheLookup("hit")
	g := entry.gym
	return &g, true
}

func (c *memoryCache) Set(_ context.Context, id int, g *Gym) {
	c.mu.Lock()
	c.entries[id] = memoryEntry{gym: *g, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *memoryCache) Invalidate(_ context.Context, id int) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}
