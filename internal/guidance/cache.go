package guidance

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// Per-kind time-to-live. Error translations describe a fixed stderr
// string and stay valid far longer than state explanations.
const (
	stateTTL = 5 * time.Minute
	errorTTL = 60 * time.Minute
)

// defaultCacheCapacity bounds the number of cached responses.
const defaultCacheCapacity = 100

// cacheKey returns the deterministic key for a request: a SHA-256 over
// its canonical JSON encoding.
func cacheKey(req Request) string {
	payload, err := json.Marshal(req)
	if err != nil {
		return string(req.Kind) + ":" + req.Query
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ttlFor returns the TTL applied to a request kind.
func ttlFor(kind Kind) time.Duration {
	if kind == KindError {
		return errorTTL
	}
	return stateTTL
}

type cacheEntry struct {
	key      string
	response Response
	expires  time.Time
}

// responseCache is a bounded TTL cache with least-recently-used
// eviction. The mutex covers lookup and insert only; it is never held
// across a network call.
type responseCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
	now      func() time.Time
}

func newResponseCache(capacity int) *responseCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &responseCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
		now:      time.Now,
	}
}

// get returns the cached response for key when present and unexpired,
// promoting it to most recently used.
func (c *responseCache) get(key string) (Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return Response{}, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expires) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return Response{}, false
	}
	c.order.MoveToFront(elem)
	return entry.response, true
}

// put stores a response under key with the given TTL, evicting the
// least recently used entry when full.
func (c *responseCache) put(key string, resp Response, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.response = resp
		entry.expires = c.now().Add(ttl)
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{
		key:      key,
		response: resp,
		expires:  c.now().Add(ttl),
	})
}

// len reports the number of live entries.
func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
