// Package dedup tracks listing URLs that have already triggered a
// notification, with time-based expiry.
package dedup

import (
	"sync"
	"time"
)

// Window is the retention period after which a previously notified
// listing may be notified again if it reappears.
const Window = 21 * 24 * time.Hour

// Cache maps listing URLs to the day they were first notified. Safe for
// concurrent use. Not persisted: a restart may re-notify recent items.
type Cache struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{seen: make(map[string]time.Time)}
}

// HasSeen reports whether url has already been notified.
func (c *Cache) HasSeen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[url]
	return ok
}

// MarkSeen records url as notified on day. Re-marking an already seen URL
// keeps the original date.
func (c *Cache) MarkSeen(url string, day time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[url]; ok {
		return
	}
	c.seen[url] = day
}

// Sweep removes every entry first seen more than Window before today.
func (c *Cache) Sweep(today time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for url, day := range c.seen {
		if today.Sub(day) > Window {
			delete(c.seen, url)
		}
	}
}

// Len returns the number of tracked URLs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
