package tmdb

import (
	"context"
	"maps"
	"sync"

	"golang.org/x/sync/singleflight"
)

// GenreLoader fetches the full genre id to name table.
type GenreLoader func(ctx context.Context) (map[int]string, error)

// GenreCache maps TMDB genre ids to names. It is filled once, on first
// use or explicitly through Populate; concurrent callers share a single
// fetch. A failed fetch leaves the cache empty so the next call retries.
type GenreCache struct {
	load  GenreLoader
	group singleflight.Group

	mu    sync.RWMutex
	names map[int]string
}

// NewGenreCache creates an empty cache backed by load.
func NewGenreCache(load GenreLoader) *GenreCache {
	return &GenreCache{load: load}
}

// Populate fetches the genre table unless it is already cached.
func (c *GenreCache) Populate(ctx context.Context) error {
	if c.Populated() {
		return nil
	}
	_, err, _ := c.group.Do("genres", func() (any, error) {
		if c.Populated() {
			return nil, nil
		}
		names, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		if names == nil {
			names = map[int]string{}
		}
		c.mu.Lock()
		c.names = names
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// Populated reports whether the table has been fetched.
func (c *GenreCache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names != nil
}

// Name returns the name for id.
func (c *GenreCache) Name(id int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[id]
	return name, ok
}

// Names maps ids to names in order, skipping ids the table lacks.
func (c *GenreCache) Names(ids []int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, id := range ids {
		if name, ok := c.names[id]; ok {
			out = append(out, name)
		}
	}
	return out
}

// All returns a copy of the table.
func (c *GenreCache) All() map[int]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.names)
}
