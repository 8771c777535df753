package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Entry is one cached serialized feed. Entries are immutable once written.
type Entry struct {
	StoreID     string
	Body        []byte
	Fingerprint string
	GeneratedAt time.Time
	ExpiresAt   time.Time
}

// Cache holds one serialized feed per store with a shared fixed TTL. Expired
// entries are evicted lazily on read. Safe for concurrent use; concurrent
// regeneration races resolve last-writer-wins.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]*Entry
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Get returns the live entry for a store, or nil. An expired entry is removed.
func (c *Cache) Get(storeID string) *Entry {
	c.mu.RLock()
	entry, ok := c.entries[storeID]
	c.mu.RUnlock()

	if !ok {
		return nil
	}
	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a fresher entry may have landed.
		if current, ok := c.entries[storeID]; ok && c.now().After(current.ExpiresAt) {
			delete(c.entries, storeID)
		}
		c.mu.Unlock()
		return nil
	}
	return entry
}

// Put stores the serialized feed for a store, replacing any prior entry, and
// returns the new entry with its content fingerprint.
func (c *Cache) Put(storeID string, body []byte) *Entry {
	now := c.now()
	entry := &Entry{
		StoreID:     storeID,
		Body:        body,
		Fingerprint: Fingerprint(body),
		GeneratedAt: now,
		ExpiresAt:   now.Add(c.ttl),
	}

	c.mu.Lock()
	c.entries[storeID] = entry
	c.mu.Unlock()

	return entry
}

// Fingerprint is a deterministic digest of the document body, used as the
// ETag / conditional-request validator.
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:16])
}
