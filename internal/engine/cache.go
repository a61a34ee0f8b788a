package engine

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/thesavant42/countyroots/internal/models"
)

// queryKey identifies a cumulative query
type queryKey struct {
	year     int
	selector models.Selector
}

// flightKey is the singleflight key; the category is quoted so no two
// distinct keys render the same
func (k queryKey) flightKey() string {
	return fmt.Sprintf("%d/%t/%q", k.year, k.selector.Other, k.selector.Category)
}

type queryCache interface {
	Get(key queryKey) ([]models.CodeValue, bool)
	Add(key queryKey, codes []models.CodeValue)
	Len() int
}

// mapCache grows for the process lifetime
type mapCache struct {
	mu      sync.RWMutex
	entries map[queryKey][]models.CodeValue
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[queryKey][]models.CodeValue)}
}

func (c *mapCache) Get(key queryKey) ([]models.CodeValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	codes, ok := c.entries[key]
	return codes, ok
}

func (c *mapCache) Add(key queryKey, codes []models.CodeValue) {
	c.mu.Lock()
	c.entries[key] = codes
	c.mu.Unlock()
}

func (c *mapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// lruCache bounds the number of memoized queries
type lruCache struct {
	inner *lru.Cache[queryKey, []models.CodeValue]
}

func newLRUCache(size int) (*lruCache, error) {
	inner, err := lru.New[queryKey, []models.CodeValue](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}
	return &lruCache{inner: inner}, nil
}

func (c *lruCache) Get(key queryKey) ([]models.CodeValue, bool) {
	return c.inner.Get(key)
}

func (c *lruCache) Add(key queryKey, codes []models.CodeValue) {
	c.inner.Add(key, codes)
}

func (c *lruCache) Len() int {
	return c.inner.Len()
}
