// Package loader retrieves the allow and block lists named by the
// configuration and turns each one into a named domain set.
//
// Loading never fails as a whole. A source that cannot be read or parsed is
// logged with its identifier and left out of the result, and the remaining
// sources are still loaded in order.
package loader

import (
	"context"

	"github.com/quantmind-br/listaudit/internal/domain"
	"github.com/quantmind-br/listaudit/internal/fetcher"
	"github.com/quantmind-br/listaudit/internal/manifest"
	"github.com/quantmind-br/listaudit/internal/parser"
	"github.com/quantmind-br/listaudit/internal/utils"
)

// Failure stages reported in domain.SourceError
const (
	StageRead  = "read"
	StageParse = "parse"
)

// Options configures a Loader
type Options struct {
	AllowlistPath string
	ManifestPath  string
	Progress      bool
}

// Loader loads allow and block lists
type Loader struct {
	fetcher   domain.Fetcher
	manifests *manifest.Loader
	logger    *utils.Logger
	opts      Options
}

// New creates a Loader. f serves HTTP(S) sources and may be nil when only
// local sources are expected.
func New(f domain.Fetcher, logger *utils.Logger, opts Options) *Loader {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Loader{
		fetcher:   f,
		manifests: manifest.NewLoader(),
		logger:    logger.WithComponent("loader"),
		opts:      opts,
	}
}

// LoadAllowLists loads the configured allowlist
func (l *Loader) LoadAllowLists(ctx context.Context) []domain.NamedDomainSet {
	var lists []domain.NamedDomainSet

	set, err := l.Load(ctx, l.opts.AllowlistPath)
	if err != nil {
		l.skip(l.opts.AllowlistPath, err)
		return lists
	}

	return append(lists, set)
}

// LoadBlockLists loads every blocklist source listed in the manifest, one at
// a time and in manifest order. Repeated sources are loaded again and kept
// as separate entries.
func (l *Loader) LoadBlockLists(ctx context.Context) []domain.NamedDomainSet {
	var lists []domain.NamedDomainSet

	sources, err := l.manifests.Load(l.opts.ManifestPath)
	if err != nil {
		l.logger.WithSource(l.opts.ManifestPath).Error().
			Err(err).
			Msg("Failed to read blocklist sources")
		return lists
	}

	l.logger.Debug().Int("sources", len(sources)).Msg("Loading blocklists")

	bar := utils.NewProgressBar(len(sources), utils.DescDownloading, l.opts.Progress)
	defer bar.Finish()

	for _, source := range sources {
		set, err := l.Load(ctx, source)
		_ = bar.Add(1)
		if err != nil {
			l.skip(source, err)
			continue
		}
		lists = append(lists, set)
	}

	return lists
}

// Load retrieves and parses a single source. Errors are *domain.SourceError.
func (l *Loader) Load(ctx context.Context, source string) (domain.NamedDomainSet, error) {
	text, err := fetcher.Read(ctx, l.fetcher, source)
	if err != nil {
		return domain.NamedDomainSet{}, domain.NewSourceError(source, StageRead, err)
	}

	set, err := parser.Parse(text)
	if err != nil {
		return domain.NamedDomainSet{}, domain.NewSourceError(source, StageParse, err)
	}

	l.logger.WithSource(source).Debug().Int("domains", set.Len()).Msg("Loaded list")
	return domain.NamedDomainSet{Name: source, Domains: set}, nil
}

func (l *Loader) skip(source string, err error) {
	l.logger.WithSource(source).Warn().Err(err).Msg("Skipping list")
}
