// Package appstate is the process-wide application state container:
// the mode stack, history search, a bounded results cache, a debug log service, and the
// key-press log. The results cache is grounded
// directly on BreachLine's app/cache.Cache (bounded LRU,
// sync.RWMutex-guarded, Logger-injectable) narrowed from its multi-tier
// pipeline/stage/base-data/header caching down to a single
// fingerprint -> table.Table map.
package appstate

import (
	"container/list"
	"sync"

	"github.com/minio/highwayhash"

	"github.com/tablescope/tablescope/internal/table"
)

// Fingerprint hashes a normalized query string and table name into the
// results cache key, supplemented from original_source/sql-cli's
// app_state_container.rs (which folds the table name into the cache
// key, not just the query string) and hashed with BreachLine's own
// highwayhash key (app.go).
var highwayhashKey = make([]byte, 32)

func Fingerprint(normalizedQuery, tableName string) string {
	h, err := highwayhash.New64(highwayhashKey)
	if err != nil {
		// highwayhash.New64 only errors on a wrong-length key; ours is
		// fixed at compile time, so this is unreachable in practice.
		panic(err)
	}
	h.Write([]byte(tableName))
	h.Write([]byte{0})
	h.Write([]byte(normalizedQuery))
	sum := h.Sum(nil)
	return string(sum)
}

type cacheEntry struct {
	key       string
	query     string
	tableName string
	result    *table.Table
	element   *list.Element
}

// Entry is a read-only snapshot of one cached result, for CacheList
// mode to display and select from.
type Entry struct {
	Key       string
	Query     string
	TableName string
	Rows      int
}

// Cache is the bounded results cache: a map from query fingerprint to
// a previously executed result, evicting the least-recently-used entry
// on insert once full — matching BreachLine's app/cache.Cache
// eviction policy (see DESIGN.md's Open Questions).
type Cache struct {
	mu       sync.RWMutex
	maxSize  int
	entries  map[string]*cacheEntry
	lru      *list.List // front = most recently used
	logger   Logger
}

// NewCache constructs a Cache bounded to maxSize entries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
		lru:     list.New(),
	}
}

// SetLogger attaches a Logger after construction — BreachLine's
// delayed-injection pattern (cache.SetLogger), mirrored here by
// Container.AttachDebugService.
func (c *Cache) SetLogger(l Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

func (c *Cache) Get(key string) (*table.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		c.log("CACHE_MISS", key)
		return nil, false
	}
	c.lru.MoveToFront(e.element)
	c.log("CACHE_HIT", key)
	return e.result, true
}

func (c *Cache) Store(key, query, tableName string, result *table.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		existing.result = result
		existing.query = query
		existing.tableName = tableName
		c.lru.MoveToFront(existing.element)
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	el := c.lru.PushFront(key)
	c.entries[key] = &cacheEntry{key: key, query: query, tableName: tableName, result: result, element: el}
	c.log("CACHE_STORE", key)
}

// List returns every cached entry, most-recently-used first, for
// CacheList mode.
func (c *Cache) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for el := c.lru.Front(); el != nil; el = el.Next() {
		key := el.Value.(string)
		e := c.entries[key]
		out = append(out, Entry{Key: e.key, Query: e.query, TableName: e.tableName, Rows: e.result.NumRows()})
	}
	return out
}

// Delete removes a single entry by key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	c.lru.Remove(e.element)
	delete(c.entries, key)
	c.log("CACHE_DELETE", key)
}

func (c *Cache) evictOldest() {
	back := c.lru.Back()
	if back == nil {
		return
	}
	key := back.Value.(string)
	c.lru.Remove(back)
	delete(c.entries, key)
	c.log("CACHE_EVICT", key)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.lru.Init()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) log(event, key string) {
	if c.logger != nil {
		c.logger.Logf(LevelDebug, "cache", "[%s] %s", event, key)
	}
}
