package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/quantpulse/breakoutscan/models"
)

// HistoryCache is an in-memory TTL cache for bar series, sitting in
// front of the data provider so that back-to-back scans of the same
// universe do not refetch every symbol. Indicator computation is still
// performed fresh on every request.
type HistoryCache struct {
	entries map[string]*cachedSeries
	ttl     time.Duration
	mu      sync.RWMutex
}

type cachedSeries struct {
	bars      []models.Bar
	fetchedAt time.Time
}

func NewHistoryCache(ttl time.Duration) *HistoryCache {
	return &HistoryCache{
		entries: make(map[string]*cachedSeries),
		ttl:     ttl,
	}
}

func seriesKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s-%s-%s", symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// Get returns the cached series for a symbol and range, if fresh.
func (c *HistoryCache) Get(symbol string, start, end time.Time) ([]models.Bar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[seriesKey(symbol, start, end)]
	if !exists || time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.bars, true
}

// Set stores a series. Expired entries for other keys are dropped
// opportunistically to bound memory.
func (c *HistoryCache) Set(symbol string, start, end time.Time, bars []models.Bar) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if time.Since(entry.fetchedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
	c.entries[seriesKey(symbol, start, end)] = &cachedSeries{
		bars:      bars,
		fetchedAt: time.Now(),
	}
}

// Len reports the number of cached series, expired or not.
func (c *HistoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
