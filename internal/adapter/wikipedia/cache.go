package wikipedia

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
)

// CachedFetcher wraps a PageFetcher with an in-memory LRU cache keyed by
// page title.
type CachedFetcher struct {
	inner   domain.PageFetcher
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner domain.PageFetcher, maxEntries int, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// FetchPage serves repeated titles from the cache.
func (c *CachedFetcher) FetchPage(ctx context.Context, pageName string) (domain.FetchedPage, error) {
	key := cacheKey(pageName)
	if page, ok := c.cache.get(key); ok {
		c.metrics.FetchCache.WithLabelValues("hit").Inc()
		return page, nil
	}
	c.metrics.FetchCache.WithLabelValues("miss").Inc()

	page, err := c.inner.FetchPage(ctx, pageName)
	if err != nil {
		return page, err
	}
	// Only successful fetches are cached so that failures are retried.
	if page.Result == domain.FetchPage {
		c.cache.put(key, page)
	}
	return page, nil
}

func cacheKey(pageName string) string {
	return strings.ReplaceAll(strings.TrimSpace(pageName), " ", "_")
}

// lruCache is a thread-safe LRU cache of fetched pages.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type entry struct {
	key  string
	page domain.FetchedPage
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (domain.FetchedPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.FetchedPage{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).page, true
}

func (c *lruCache) put(key string, page domain.FetchedPage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).page = page
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, page: page})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
