package youtube

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/mgpai22/capseek/internal/logging"
)

// Cache memoizes a Source in a size-bounded LRU keyed by video ID. Only
// results that would not change on retry are kept; network and extractor
// failures always go back to the source.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache
	source  Source
	logger  *logging.Logger
}

// NewCache wraps source. A size of zero or less disables caching.
func NewCache(size int, source Source, logger *logging.Logger) *Cache {
	c := &Cache{
		source: source,
		logger: logging.OrNop(logger).Named("cache"),
	}
	if size > 0 {
		c.entries = lru.New(size)
	}
	return c
}

func (c *Cache) Fetch(ctx context.Context, rawURL string) Result {
	if c.entries == nil {
		return c.source.Fetch(ctx, rawURL)
	}

	key := cacheKey(rawURL)

	c.mu.Lock()
	cached, ok := c.entries.Get(key)
	c.mu.Unlock()
	if ok {
		c.logger.Debugw("Cache hit", "key", key)
		return cached.(Result)
	}

	result := c.source.Fetch(ctx, rawURL)
	if result.cacheable() {
		c.mu.Lock()
		c.entries.Add(key, result)
		c.mu.Unlock()
	}
	return result
}

func (c *Cache) Len() int {
	if c.entries == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// video ID when recognised so different URL shapes share an entry
func cacheKey(rawURL string) string {
	if id := VideoID(rawURL); id != "" {
		return "id:" + id
	}
	return "url:" + rawURL
}
