// Package thumbs builds image thumbnails of a folder in a single background worker.
package thumbs

import (
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache maps image paths to their thumbnails, evicting the least recently used.
// It's safe for concurrent use.
type Cache struct {
	lru *lru.Cache[string, image.Image]
}

// NewCache returns a cache of at most size thumbnails.
func NewCache(size int) (*Cache, error) {
	l, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

func (c *Cache) Get(name string) (image.Image, bool) {
	return c.lru.Get(name)
}

func (c *Cache) Add(name string, thumbnail image.Image) {
	c.lru.Add(name, thumbnail)
}

func (c *Cache) Contains(name string) bool {
	return c.lru.Contains(name)
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

func (c *Cache) Purge() {
	c.lru.Purge()
}
