package app

import (
	"time"

	"github.com/quantmind-br/listaudit/internal/cache"
	"github.com/quantmind-br/listaudit/internal/domain"
	"github.com/quantmind-br/listaudit/internal/fetcher"
)

// Dependencies holds the shared resources of a run
type Dependencies struct {
	Fetcher domain.Fetcher
	Cache   domain.Cache
}

// DependencyOptions contains options for creating dependencies
type DependencyOptions struct {
	Timeout     time.Duration
	MaxRetries  int
	UserAgent   string
	ProxyURL    string
	EnableCache bool
	CacheTTL    time.Duration
	CacheDir    string
}

// NewDependencies creates the fetcher and, when enabled, its cache
func NewDependencies(opts DependencyOptions) (*Dependencies, error) {
	// Create fetcher
	fetcherClient, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:     opts.Timeout,
		MaxRetries:  opts.MaxRetries,
		EnableCache: opts.EnableCache,
		CacheTTL:    opts.CacheTTL,
		UserAgent:   opts.UserAgent,
		ProxyURL:    opts.ProxyURL,
	})
	if err != nil {
		return nil, err
	}

	// Create cache if enabled
	var cacheImpl domain.Cache
	if opts.EnableCache {
		cacheImpl, err = OpenCache(opts.CacheDir)
		if err != nil {
			fetcherClient.Close()
			return nil, err
		}
		fetcherClient.SetCache(cacheImpl)
	}

	return &Dependencies{
		Fetcher: fetcherClient,
		Cache:   cacheImpl,
	}, nil
}

// OpenCache opens the on-disk list cache in dir
func OpenCache(dir string) (*cache.BadgerCache, error) {
	opts := cache.DefaultOptions()
	opts.Directory = dir
	return cache.NewBadgerCache(opts)
}

// Close releases all resources
func (d *Dependencies) Close() error {
	if d.Fetcher != nil {
		d.Fetcher.Close()
	}
	if d.Cache != nil {
		return d.Cache.Close()
	}
	return nil
}
