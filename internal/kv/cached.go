package kv

import (
	"context"

	"walletbook/internal/cache"
)

// Cached puts a cache in front of a slower backend. Reads fill the cache,
// writes go to the backend first and update the cache only on success.
type Cached struct {
	next  Store
	cache cache.Cache[[]byte]
}

func NewCached(next Store, c cache.Cache[[]byte]) *Cached {
	return &Cached{next: next, cache: c}
}

func (c *Cached) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.cache.Get(key); ok {
		return clone(v), nil
	}
	v, err := c.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, clone(v))
	return v, nil
}

func (c *Cached) Set(ctx context.Context, key string, value []byte) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.cache.Set(key, clone(value))
	return nil
}

// Close closes the wrapped backend if it holds resources.
func (c *Cached) Close() error {
	if closer, ok := c.next.(Closer); ok {
		return closer.Close()
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
