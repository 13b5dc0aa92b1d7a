package preview

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"slider/marquee"
)

type cacheEntry struct {
	data        []byte
	contentType string
	created     time.Time
}

// pageCache keeps rendered pages and avatar thumbnails for ttl. A zero ttl
// disables it.
type pageCache struct {
	mu   sync.RWMutex
	now  func() time.Time
	ttl  time.Duration
	data map[string]cacheEntry
}

func newPageCache(now func() time.Time, ttl time.Duration) *pageCache {
	if now == nil {
		now = time.Now
	}
	return &pageCache{
		now:  now,
		ttl:  ttl,
		data: make(map[string]cacheEntry),
	}
}

// propsKey hashes properties in their canonical JSON form; map keys marshal
// sorted, so equal property sets share a key.
func propsKey(kind string, props marquee.Properties) (string, bool) {
	raw, err := json.Marshal(props)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(append([]byte(kind+"|"), raw...))
	return kind + ":" + hex.EncodeToString(sum[:]), true
}

func (c *pageCache) Store(key, contentType string, data []byte) {
	if c == nil || c.ttl <= 0 || key == "" || len(data) == 0 {
		return
	}
	entry := cacheEntry{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		created:     c.now(),
	}
	c.mu.Lock()
	c.data[key] = entry
	c.mu.Unlock()
}

func (c *pageCache) Select(key string) ([]byte, string, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, "", false
	}
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, "", false
	}
	if c.now().Sub(entry.created) >= c.ttl {
		c.mu.Lock()
		if cur, ok := c.data[key]; ok && cur.created.Equal(entry.created) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return nil, "", false
	}
	return append([]byte(nil), entry.data...), entry.contentType, true
}

// Sweep drops expired entries and returns how many were removed.
func (c *pageCache) Sweep() int {
	if c == nil {
		return 0
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.data {
		if now.Sub(e.created) >= c.ttl {
			delete(c.data, k)
			n++
		}
	}
	return n
}

func (c *pageCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
