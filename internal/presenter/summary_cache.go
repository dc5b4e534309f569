package presenter

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"websummarizer/internal/page"
)

const (
	DefaultSummaryCacheSize = 256
	DefaultSummaryCacheTTL  = time.Hour
)

// summaryCache is an LRU of rendered summaries with a fixed TTL. A nil cache
// is valid and never hits.
type summaryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
	ttl        time.Duration
}

type summaryCacheEntry struct {
	key       string
	title     string
	payload   string
	expiresAt time.Time
}

func newSummaryCache(maxEntries int, ttl time.Duration) *summaryCache {
	if maxEntries <= 0 || ttl <= 0 {
		return nil
	}

	return &summaryCache{
		entries:    make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// summaryCacheKey binds a summary to both the page and the exact prompt, so
// an edited page is summarized again.
func summaryCacheKey(rawURL string, userPrompt string) string {
	canonicalURL := page.CanonicalURL(rawURL)
	if canonicalURL == "" || userPrompt == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(userPrompt))

	return canonicalURL + "|" + hex.EncodeToString(hash[:])
}

func (c *summaryCache) get(key string, now time.Time) (summaryCacheEntry, bool) {
	if c == nil || key == "" {
		return summaryCacheEntry{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return summaryCacheEntry{}, false
	}

	entry, ok := elem.Value.(*summaryCacheEntry)
	if !ok {
		return summaryCacheEntry{}, false
	}

	if now.After(entry.expiresAt) {
		c.removeElement(elem)

		return summaryCacheEntry{}, false
	}

	c.order.MoveToFront(elem)

	return *entry, true
}

func (c *summaryCache) set(key string, title string, payload string, now time.Time) {
	if c == nil || key == "" || payload == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := now.Add(c.ttl)

	if elem, ok := c.entries[key]; ok {
		entry, castOk := elem.Value.(*summaryCacheEntry)
		if !castOk {
			return
		}

		entry.title = title
		entry.payload = payload
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)

		return
	}

	elem := c.order.PushFront(&summaryCacheEntry{
		key:       key,
		title:     title,
		payload:   payload,
		expiresAt: expiresAt,
	})
	c.entries[key] = elem

	c.evictExpiredLocked(now)
	c.enforceSizeLimitLocked()
}

func (c *summaryCache) evictExpiredLocked(now time.Time) {
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()

		if entry, ok := elem.Value.(*summaryCacheEntry); ok && now.After(entry.expiresAt) {
			c.removeElement(elem)
		}
		elem = prev
	}
}

func (c *summaryCache) enforceSizeLimitLocked() {
	for len(c.entries) > c.maxEntries {
		elem := c.order.Back()
		if elem == nil {
			return
		}
		c.removeElement(elem)
	}
}

func (c *summaryCache) removeElement(elem *list.Element) {
	entry, ok := elem.Value.(*summaryCacheEntry)
	if !ok {
		return
	}

	delete(c.entries, entry.key)
	c.order.Remove(elem)
}
