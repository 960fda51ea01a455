package poll

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dgraph-io/ristretto/v2"
)

// NameFetcher looks up a voter's display name on a cache miss.
type NameFetcher func(ctx context.Context, id int64) (string, error)

// NameCache is a bounded voter name cache in front of a NameFetcher.
// Failed lookups fall back to the numeric ID and are not cached.
type NameCache struct {
	cache *ristretto.Cache[int64, string]
	fetch NameFetcher
}

func NewNameCache(size int64, fetch NameFetcher) (*NameCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("name cache size must be positive, got %d", size)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[int64, string]{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
		// Every entry costs 1, so MaxCost is an entry count.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create name cache: %w", err)
	}
	return &NameCache{cache: cache, fetch: fetch}, nil
}

// Remember stores a name seen on an incoming event.
func (c *NameCache) Remember(id int64, name string) {
	if name == "" {
		return
	}
	c.cache.Set(id, name, 1)
}

func (c *NameCache) Name(ctx context.Context, id int64) string {
	if name, ok := c.cache.Get(id); ok {
		return name
	}
	if c.fetch == nil {
		return strconv.FormatInt(id, 10)
	}

	name, err := c.fetch(ctx, id)
	if err != nil || name == "" {
		return strconv.FormatInt(id, 10)
	}
	c.cache.Set(id, name, 1)
	return name
}

// Wait blocks until buffered writes are visible to Name.
func (c *NameCache) Wait() {
	c.cache.Wait()
}

func (c *NameCache) Close() {
	c.cache.Close()
}
