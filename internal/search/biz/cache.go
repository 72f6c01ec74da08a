package biz

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ranadkar/polaryx/internal/content"
)

// ErrNotFound indicates the URL was never returned by a search (or has
// been evicted).
var ErrNotFound = errors.New("URL not found")

// ResultCache is a bounded, URL-keyed store of enriched items from past
// searches. The aggregator writes it after enrichment (last write wins);
// the summary service reads it. Process-lifetime only.
type ResultCache struct {
	lru *lru.Cache[string, *content.Item]
}

// NewResultCache creates a cache holding at most capacity items, evicting
// least-recently-used entries beyond that.
func NewResultCache(capacity int) (*ResultCache, error) {
	c, err := lru.New[string, *content.Item](capacity)
	if err != nil {
		return nil, err
	}
	return &ResultCache{lru: c}, nil
}

// Put stores an item keyed by its URL, overwriting any previous entry.
func (c *ResultCache) Put(item *content.Item) {
	c.lru.Add(item.URL, item)
}

// Get returns the cached item for the URL, or ErrNotFound.
func (c *ResultCache) Get(url string) (*content.Item, error) {
	item, ok := c.lru.Get(url)
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}

// Len returns the number of cached items.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
