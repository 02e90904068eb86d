package texture

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
)

// ErrNotFound is returned by Cache.Load when a name matches neither a
// file nor an indexed stem.
var ErrNotFound = errors.New("texture: not found")

type entry struct {
	img *image.NRGBA
	err error
}

// Cache is a concurrency-safe texture cache shared by render workers.
// Cached images must be treated as read-only. Failed loads are cached
// too, with their error.
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	index *Index
}

// NewCache creates a cache backed by index, which may be nil.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]entry),
		index: index,
	}
}

// Load loads and caches a texture. name is tried as a file path first,
// then as a stem in the index.
func (c *Cache) Load(name string) (*image.NRGBA, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	path := name
	if info, err := os.Stat(name); err != nil || info.IsDir() {
		p, ok := c.index.ResolvePath(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		path = p
	}
	e := c.load(path, func() entry {
		img, err := LoadTexture(path)
		return entry{img, err}
	})
	return e.img, e.err
}

// LoadOr is Load with a procedural fallback, cached under name, used
// only when nothing matches name. Decode failures are still returned.
func (c *Cache) LoadOr(name string, fallback func() *image.NRGBA) (*image.NRGBA, error) {
	img, err := c.Load(name)
	if errors.Is(err, ErrNotFound) {
		e := c.load("procedural:"+name, func() entry { return entry{img: fallback()} })
		return e.img, nil
	}
	return img, err
}

func (c *Cache) load(key string, fn func() entry) entry {
	// Fast path: read lock
	c.mu.RLock()
	if e, exists := c.items[key]; exists {
		c.mu.RUnlock()
		return e
	}
	c.mu.RUnlock()

	e := fn()

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, exists := c.items[key]; exists {
		return prev
	}
	c.items[key] = e
	return e
}

// Len returns the number of cached entries, failed loads included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
