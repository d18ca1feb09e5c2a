package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDependencies(t *testing.T) {
	t.Run("cache disabled", func(t *testing.T) {
		deps, err := NewDependencies(DependencyOptions{Timeout: time.Second})
		require.NoError(t, err)
		assert.NotNil(t, deps.Fetcher)
		assert.Nil(t, deps.Cache)
		assert.NoError(t, deps.Close())
	})

	t.Run("cache enabled opens the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cache")
		deps, err := NewDependencies(DependencyOptions{
			EnableCache: true,
			CacheTTL:    time.Hour,
			CacheDir:    dir,
		})
		require.NoError(t, err)
		require.NotNil(t, deps.Cache)

		require.NoError(t, deps.Cache.Set(context.Background(), "k", []byte("v"), time.Hour))
		require.NoError(t, deps.Close())

		c, err := OpenCache(dir)
		require.NoError(t, err)
		defer c.Close()
		assert.Equal(t, int64(1), c.Size())
	})

	t.Run("proxy reaches the client", func(t *testing.T) {
		deps, err := NewDependencies(DependencyOptions{ProxyURL: "http://127.0.0.1:3128"})
		require.NoError(t, err)
		assert.NoError(t, deps.Close())

		_, err = NewDependencies(DependencyOptions{ProxyURL: "not a proxy"})
		assert.Error(t, err)
	})
}
