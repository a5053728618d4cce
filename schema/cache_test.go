package schema

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls   atomic.Int32
	release chan struct{}
}

func (l *countingLoader) Load(_ context.Context, table string) (*Table, error) {
	l.calls.Add(1)
	if l.release != nil {
		<-l.release
	}
	if table == "missing" {
		return nil, ErrTableNotFound
	}
	return newTable(table, "id"), nil
}

func TestCache_Table(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)
	ctx := context.Background()

	first, err := cache.Table(ctx, "users")
	require.NoError(t, err)
	second, err := cache.Table(ctx, "users")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)

	_, err := cache.Table(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTableNotFound))
	assert.Contains(t, err.Error(), `failed to load table "missing"`)

	_, err = cache.Table(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
	assert.Equal(t, 0, cache.Len())
}

func TestCache_ConcurrentMissesShareLoad(t *testing.T) {
	loader := &countingLoader{release: make(chan struct{})}
	cache := NewCache(loader)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*Table, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tbl, err := cache.Table(context.Background(), "users")
			assert.NoError(t, err)
			results[i] = tbl
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for _, tbl := range results {
		assert.Same(t, results[0], tbl)
	}
}

func TestCache_InvalidateAndRefresh(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	loader := &countingLoader{}
	cache := NewCache(loader, WithLogger(logger))
	ctx := context.Background()

	_, err := cache.Lookup(ctx, "users", "orgs")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	cache.Invalidate("users")
	assert.Equal(t, 1, cache.Len())
	_, err = cache.Table(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, int32(3), loader.calls.Load())

	cache.Refresh()
	assert.Equal(t, 0, cache.Len())

	assert.Contains(t, buf.String(), "schema cache miss")
	assert.Contains(t, buf.String(), "schema cache invalidated")
	assert.Contains(t, buf.String(), "dropped=2")
}

func TestCache_LookupError(t *testing.T) {
	cache := NewCache(&countingLoader{})
	_, err := cache.Lookup(context.Background(), "users", "missing")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestLoaderFunc(t *testing.T) {
	var got string
	cache := NewCache(LoaderFunc(func(_ context.Context, table string) (*Table, error) {
		got = table
		return NewTable(table), nil
	}))
	tbl, err := cache.Table(context.Background(), "events")
	require.NoError(t, err)
	assert.Equal(t, "events", got)
	assert.Empty(t, tbl.Columns)
}
