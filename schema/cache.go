package schema

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes tables loaded by a Loader. It is safe for concurrent use.
// Concurrent misses for the same table share one load; a load racing with
// Invalidate may repopulate the entry it replaced, which only costs a reload.
type Cache struct {
	loader Loader
	logger *slog.Logger
	tables map[string]*Table
	group  singleflight.Group
	mu     sync.RWMutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache creates a cache in front of loader.
func NewCache(loader Loader, opts ...Option) *Cache {
	c := &Cache{
		loader: loader,
		logger: slog.New(slog.DiscardHandler),
		tables: make(map[string]*Table),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the cached table, loading it on a miss.
func (c *Cache) Table(ctx context.Context, name string) (*Table, error) {
	c.mu.RLock()
	t, ok := c.tables[name]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	c.logger.Debug("schema cache miss", slog.String("table", name))
	v, err, _ := c.group.Do(name, func() (any, error) {
		t, err := c.loader.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[name] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load table %q: %w", name, err)
	}
	return v.(*Table), nil
}

// Lookup loads tables and returns a lookup across them.
func (c *Cache) Lookup(ctx context.Context, tables ...string) (Tables, error) {
	out := make(Tables, 0, len(tables))
	for _, name := range tables {
		t, err := c.Table(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Invalidate drops one table.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.tables, name)
	c.mu.Unlock()
	c.group.Forget(name)
	c.logger.Debug("schema cache invalidated", slog.String("table", name))
}

// Refresh drops every cached table.
func (c *Cache) Refresh() {
	c.mu.Lock()
	n := len(c.tables)
	c.tables = make(map[string]*Table)
	c.mu.Unlock()
	c.logger.Debug("schema cache refreshed", slog.Int("dropped", n))
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}
