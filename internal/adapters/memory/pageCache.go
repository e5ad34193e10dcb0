package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// PageCacheMemory is an in-process PageCache. It is local to one process, so
// several app instances each keep their own copy.
type PageCacheMemory struct {
	mu      sync.Mutex
	entries map[string]entry
	Now     func() time.Time
}

func NewPageCacheMemory() *PageCacheMemory {
	return &PageCacheMemory{
		entries: make(map[string]entry),
		Now:     time.Now,
	}
}

func (c *PageCacheMemory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.Now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (c *PageCacheMemory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:   append([]byte(nil), value...),
		expires: c.Now().Add(ttl),
	}
	return nil
}

func (c *PageCacheMemory) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}
