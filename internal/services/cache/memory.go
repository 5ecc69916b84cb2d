package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache implements an in-memory cache
type MemoryCache struct {
	mu          sync.RWMutex
	items       map[string]*cacheItem
	maxSize     int64
	currentSize int64
	stats       Stats
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

type cacheItem struct {
	value  []byte
	expiry time.Time
	size   int64
}

// NewMemoryCache creates a new in-memory cache bounded to maxSizeMB
func NewMemoryCache(maxSizeMB int64) *MemoryCache {
	mc := &MemoryCache{
		items:   make(map[string]*cacheItem),
		maxSize: maxSizeMB * 1024 * 1024,
		stopCh:  make(chan struct{}),
	}

	mc.wg.Add(1)
	go mc.cleanupExpired()

	return mc
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	item, exists := mc.items[key]
	mc.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	if time.Now().After(item.expiry) {
		_ = mc.Delete(ctx, key)
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	atomic.AddInt64(&mc.stats.Hits, 1)
	return item.value, true
}

// Set stores a value in the cache with a TTL
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	size := int64(len(key) + len(value))

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if existing, ok := mc.items[key]; ok {
		mc.currentSize -= existing.size
	}

	// Evict oldest-expiring entries until the new value fits
	for mc.currentSize+size > mc.maxSize && len(mc.items) > 0 {
		var oldestKey string
		var oldestExpiry time.Time
		for k, it := range mc.items {
			if oldestKey == "" || it.expiry.Before(oldestExpiry) {
				oldestKey = k
				oldestExpiry = it.expiry
			}
		}
		mc.currentSize -= mc.items[oldestKey].size
		delete(mc.items, oldestKey)
		atomic.AddInt64(&mc.stats.Evictions, 1)
	}

	mc.items[key] = &cacheItem{
		value:  value,
		expiry: time.Now().Add(ttl),
		size:   size,
	}
	mc.currentSize += size
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if item, ok := mc.items[key]; ok {
		mc.currentSize -= item.size
		delete(mc.items, key)
	}
	return nil
}

// Stats returns a snapshot of cache statistics
func (mc *MemoryCache) Statistics() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&mc.stats.Hits),
		Misses:    atomic.LoadInt64(&mc.stats.Misses),
		Evictions: atomic.LoadInt64(&mc.stats.Evictions),
	}
}

// Close stops the cleanup goroutine
func (mc *MemoryCache) Close() error {
	close(mc.stopCh)
	mc.wg.Wait()
	return nil
}

func (mc *MemoryCache) cleanupExpired() {
	defer mc.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-mc.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			mc.mu.Lock()
			for k, item := range mc.items {
				if now.After(item.expiry) {
					mc.currentSize -= item.size
					delete(mc.items, k)
				}
			}
			mc.mu.Unlock()
		}
	}
}
