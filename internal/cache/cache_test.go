package cache

import (
	"context"
	"testing"
	"time"

	"github.com/quantmind-br/listaudit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// TestDefaultOptions tests default cache options
func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Empty(t, opts.Directory)
	assert.False(t, opts.InMemory)
	assert.False(t, opts.Logger)
}

// TestGenerateKey tests cache key generation
func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"same url", "https://example.com/hosts", "https://example.com/hosts", true},
		{"host case", "https://EXAMPLE.com/hosts", "https://example.com/hosts", true},
		{"default port", "https://example.com:443/hosts", "https://example.com/hosts", true},
		{"fragment", "https://example.com/hosts#top", "https://example.com/hosts", true},
		{"different path", "https://example.com/a", "https://example.com/b", false},
		{"different query", "https://example.com/l?v=1", "https://example.com/l?v=2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := GenerateKey(tt.a), GenerateKey(tt.b)
			assert.Len(t, ka, 64)
			assert.Equal(t, tt.equal, ka == kb)
		})
	}
}

func TestListKey(t *testing.T) {
	key := ListKey("https://example.com/hosts")
	assert.Equal(t, "list:"+GenerateKey("https://example.com/hosts"), key)
}

func TestNewBadgerCache_OnDisk(t *testing.T) {
	dir := t.TempDir()

	c, err := NewBadgerCache(Options{Directory: dir})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "https://example.com/hosts", []byte("a.com\n"), time.Hour))
	require.NoError(t, c.Close())
	// second close is harmless
	require.NoError(t, c.Close())

	reopened, err := NewBadgerCache(Options{Directory: dir})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "https://example.com/hosts")
	require.NoError(t, err)
	assert.Equal(t, []byte("a.com\n"), got)
}

func TestBadgerCache_GetSetHasDelete(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "https://example.com/missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.False(t, c.Has(ctx, "https://example.com/missing"))

	require.NoError(t, c.Set(ctx, "https://example.com/hosts", []byte("x.com\n"), 0))
	assert.True(t, c.Has(ctx, "https://example.com/hosts"))
	assert.Equal(t, int64(1), c.Size())

	got, err := c.Get(ctx, "https://EXAMPLE.com/hosts")
	require.NoError(t, err)
	assert.Equal(t, []byte("x.com\n"), got)

	require.NoError(t, c.Delete(ctx, "https://example.com/hosts"))
	assert.False(t, c.Has(ctx, "https://example.com/hosts"))
}

func TestBadgerCache_Clear(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "https://example.com/a", []byte("a"), time.Hour))
	require.NoError(t, c.Set(ctx, "https://example.com/b", []byte("b"), time.Hour))
	assert.Equal(t, int64(2), c.Size())

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Size())
}

func TestBadgerCache_ContextCancellation(t *testing.T) {
	c := newMemoryCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "https://example.com/a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Set(ctx, "https://example.com/a", []byte("a"), time.Hour), context.Canceled)
}
