package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Layer names a cache tier
type Layer string

const (
	L1Memory Layer = "l1"
	L2Redis  Layer = "l2"
)

// Stats reports lookup counters per layer
type Stats struct {
	L1Hits    int64 `json:"l1Hits"`
	L1Misses  int64 `json:"l1Misses"`
	L2Hits    int64 `json:"l2Hits"`
	L2Misses  int64 `json:"l2Misses"`
	Evictions int64 `json:"evictions"`
	Entries   int   `json:"entries"`
}

// Config holds configuration for the cache
type Config struct {
	// Redis enables the L2 layer when non-nil
	Redis      redis.Cmdable
	KeyPrefix  string
	TTL        time.Duration
	MaxEntries int
	// Observer is called after every layer lookup
	Observer func(layer Layer, hit bool)
	// Now replaces time.Now in tests
	Now func() time.Time
}

type entry struct {
	key       string
	payload   []byte
	expiresAt time.Time
}

// MultiLayerCache is an in-process LRU (L1) in front of an optional Redis (L2).
// Values are stored as JSON in both layers so callers always get private copies.
type MultiLayerCache struct {
	logger *zap.Logger
	redis  redis.Cmdable
	prefix string
	ttl    time.Duration
	max    int
	now    func() time.Time
	notify func(Layer, bool)

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front is most recently used
	stats Stats
}

// New creates a new multi-layer cache instance
func New(cfg Config, logger *zap.Logger) *MultiLayerCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1024
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Observer == nil {
		cfg.Observer = func(Layer, bool) {}
	}
	return &MultiLayerCache{
		logger: logger.Named("cache"),
		redis:  cfg.Redis,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTL,
		max:    cfg.MaxEntries,
		now:    cfg.Now,
		notify: cfg.Observer,
		items:  make(map[string]*list.Element),
		order:  list.New(),
	}
}

// Get decodes the cached value for key into dst and reports whether it was found.
// L2 hits are promoted to L1. Redis failures are logged and treated as misses.
func (c *MultiLayerCache) Get(ctx context.Context, key string, dst any) bool {
	if payload, ok := c.getL1(key); ok {
		if err := json.Unmarshal(payload, dst); err == nil {
			return true
		}
		c.deleteL1(key)
	}
	if c.redis == nil {
		return false
	}

	payload, err := c.redis.Get(ctx, c.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.record(L2Redis, false)
		return false
	case err != nil:
		c.logger.Warn("failed to read from redis", zap.String("key", key), zap.Error(err))
		c.record(L2Redis, false)
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		c.logger.Warn("dropping undecodable redis entry", zap.String("key", key), zap.Error(err))
		c.redis.Del(ctx, c.prefix+key)
		c.record(L2Redis, false)
		return false
	}
	c.record(L2Redis, true)
	c.setL1(key, payload)
	return true
}

// Set stores value in both layers
func (c *MultiLayerCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	c.setL1(key, payload)
	if c.redis == nil {
		return nil
	}
	return c.redis.Set(ctx, c.prefix+key, payload, c.ttl).Err()
}

// Delete removes key from both layers
func (c *MultiLayerCache) Delete(ctx context.Context, key string) error {
	c.deleteL1(key)
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, c.prefix+key).Err()
}

// Stats returns a snapshot of the lookup counters
func (c *MultiLayerCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.items)
	return s
}

func (c *MultiLayerCache) getL1(key string) ([]byte, bool) {
	c.mu.Lock()
	el, ok := c.items[key]
	if ok {
		e := el.Value.(*entry)
		if c.now().Before(e.expiresAt) {
			c.order.MoveToFront(el)
			c.stats.L1Hits++
			c.mu.Unlock()
			c.notify(L1Memory, true)
			return e.payload, true
		}
		c.removeElement(el)
	}
	c.stats.L1Misses++
	c.mu.Unlock()
	c.notify(L1Memory, false)
	return nil, false
}

func (c *MultiLayerCache) setL1(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.payload, e.expiresAt = payload, expiresAt
		c.order.MoveToFront(el)
		return
	}
	for len(c.items) >= c.max {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		c.stats.Evictions++
	}
	c.items[key] = c.order.PushFront(&entry{key: key, payload: payload, expiresAt: expiresAt})
}

func (c *MultiLayerCache) deleteL1(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// removeElement must be called with mu held
func (c *MultiLayerCache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

func (c *MultiLayerCache) record(layer Layer, hit bool) {
	c.mu.Lock()
	if layer == L2Redis {
		if hit {
			c.stats.L2Hits++
		} else {
			c.stats.L2Misses++
		}
	}
	c.mu.Unlock()
	c.notify(layer, hit)
}
