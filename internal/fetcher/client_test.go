package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quantmind-br/listaudit/internal/domain"
	"github.com/quantmind-br/listaudit/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestDefaultClientOptions tests default client options
func TestDefaultClientOptions(t *testing.T) {
	opts := DefaultClientOptions()

	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 0, opts.MaxRetries)
	assert.False(t, opts.EnableCache)
	assert.Equal(t, time.Hour, opts.CacheTTL)
	assert.Empty(t, opts.UserAgent)
	assert.Empty(t, opts.ProxyURL)
}

// TestNewClient tests creating a new client
func TestNewClient(t *testing.T) {
	tests := []struct {
		name  string
		opts  ClientOptions
		check func(t *testing.T, c *Client)
	}{
		{
			name: "with default options",
			opts: DefaultClientOptions(),
			check: func(t *testing.T, c *Client) {
				assert.NotNil(t, c.tlsClient)
				assert.NotNil(t, c.retrier)
				assert.Equal(t, 0, c.retrier.MaxRetries())
			},
		},
		{
			name: "with zero timeout",
			opts: ClientOptions{Timeout: 0},
			check: func(t *testing.T, c *Client) {
				assert.NotNil(t, c)
			},
		},
		{
			name: "with custom user agent",
			opts: ClientOptions{UserAgent: "TestAgent/1.0"},
			check: func(t *testing.T, c *Client) {
				assert.Equal(t, "TestAgent/1.0", c.userAgent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.opts)
			require.NoError(t, err)
			defer client.Close()
			tt.check(t, client)
		})
	}
}

// TestClient_Get tests fetching content
func TestClient_Get(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("0.0.0.0 ads.example.com\n"))
		}))
		defer server.Close()

		client, err := NewClient(DefaultClientOptions())
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, []byte("0.0.0.0 ads.example.com\n"), resp.Body)
		assert.Equal(t, "text/plain; charset=utf-8", resp.ContentType)
		assert.False(t, resp.FromCache)
		assert.Equal(t, DefaultUserAgent(), gotUA)
	})

	t.Run("server error is a single attempt", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client, err := NewClient(DefaultClientOptions())
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Get(context.Background(), server.URL)
		assert.Nil(t, resp)

		var fetchErr *domain.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("not found error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client, err := NewClient(DefaultClientOptions())
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Get(context.Background(), server.URL)
		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("retryable status is retried when enabled", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte("a.com\n"))
		}))
		defer server.Close()

		opts := DefaultClientOptions()
		opts.MaxRetries = 1
		client, err := NewClient(opts)
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("a.com\n"), resp.Body)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("invalid url", func(t *testing.T) {
		client, err := NewClient(DefaultClientOptions())
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Get(context.Background(), "http://[::1")
		assert.ErrorIs(t, err, domain.ErrInvalidURL)
	})
}

func TestClient_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the network", func(t *testing.T) {
		cache := mocks.NewSimpleMockCache()
		entry, err := encodeCacheEntry(&domain.Response{ContentType: "text/plain", Body: []byte("cached.example.com\n")})
		require.NoError(t, err)
		require.NoError(t, cache.Set(ctx, "https://lists.example.com/hosts", entry, time.Hour))

		client, err := NewClient(ClientOptions{EnableCache: true, Cache: cache, CacheTTL: time.Hour})
		require.NoError(t, err)

		resp, err := client.Get(ctx, "https://lists.example.com/hosts")
		require.NoError(t, err)
		assert.True(t, resp.FromCache)
		assert.Equal(t, []byte("cached.example.com\n"), resp.Body)
	})

	t.Run("cache miss stores the body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fresh.example.com\n"))
		}))
		defer server.Close()

		ctrl := gomock.NewController(t)
		cache := mocks.NewMockCache(ctrl)
		cache.EXPECT().Get(gomock.Any(), server.URL).Return(nil, domain.ErrCacheMiss)
		cache.EXPECT().Set(gomock.Any(), server.URL, gomock.Any(), 2*time.Hour).
			DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
				entry, err := decodeCacheEntry(value)
				require.NoError(t, err)
				assert.Equal(t, []byte("fresh.example.com\n"), entry.Body)
				return nil
			})

		client, err := NewClient(ClientOptions{EnableCache: true, Cache: cache, CacheTTL: 2 * time.Hour})
		require.NoError(t, err)

		resp, err := client.Get(ctx, server.URL)
		require.NoError(t, err)
		assert.False(t, resp.FromCache)
	})

	t.Run("disabled cache is ignored", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("live.example.com\n"))
		}))
		defer server.Close()

		ctrl := gomock.NewController(t)
		cache := mocks.NewMockCache(ctrl)

		client, err := NewClient(ClientOptions{Cache: cache})
		require.NoError(t, err)

		resp, err := client.Get(ctx, server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("live.example.com\n"), resp.Body)
	})
}

func TestRequestHeaders(t *testing.T) {
	headers := RequestHeaders("")
	assert.Equal(t, DefaultUserAgent(), headers["User-Agent"])
	assert.Contains(t, headers["Accept"], "text/plain")

	headers = RequestHeaders("custom/1.0")
	assert.Equal(t, "custom/1.0", headers["User-Agent"])
}

func TestClient_CacheKeepsCharset(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
		w.Write([]byte("caf\xe9.example\n"))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{EnableCache: true, Cache: mocks.NewSimpleMockCache(), CacheTTL: time.Hour})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	first, err := FetchText(ctx, client, server.URL)
	require.NoError(t, err)
	second, err := FetchText(ctx, client, server.URL)
	require.NoError(t, err)

	assert.Equal(t, "caf\u00e9.example\n", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_CacheUnreadableEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("live.example.com\n"))
	}))
	defer server.Close()

	cache := mocks.NewSimpleMockCache()
	require.NoError(t, cache.Set(context.Background(), server.URL, []byte("not json"), time.Hour))

	client, err := NewClient(ClientOptions{EnableCache: true, Cache: cache, CacheTTL: time.Hour})
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, resp.FromCache)
	assert.Equal(t, []byte("live.example.com\n"), resp.Body)
}

func TestClient_ErrorKinds(t *testing.T) {
	t.Run("too many requests is rate limited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client, err := NewClient(DefaultClientOptions())
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Get(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrRateLimited))

		var fetchErr *domain.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusTooManyRequests, fetchErr.StatusCode)
	})

	t.Run("slow server times out", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}))
		defer server.Close()

		client, err := NewClient(ClientOptions{Timeout: time.Second})
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Get(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrTimeout))
	})
}

func TestClient_ErrorHidesSecrets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := "http://user:secret@" + server.Listener.Addr().String() + "/hosts?token=secret"
	server.Close()

	client, err := NewClient(DefaultClientOptions())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Get(context.Background(), target)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, target, fetchErr.URL)
}
