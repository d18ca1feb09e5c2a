package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/quantmind-br/listaudit/internal/analyzer"
	"github.com/quantmind-br/listaudit/internal/config"
	"github.com/quantmind-br/listaudit/internal/domain"
	"github.com/quantmind-br/listaudit/internal/loader"
	"github.com/quantmind-br/listaudit/internal/manifest"
	"github.com/quantmind-br/listaudit/internal/output"
	"github.com/quantmind-br/listaudit/internal/utils"
)

// Orchestrator coordinates loading, analysis and reporting
type Orchestrator struct {
	config *config.Config
	deps   *Dependencies
	loader *loader.Loader
	writer *output.Writer
	logger *utils.Logger
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config    *config.Config
	Verbose   bool
	Output    io.Writer      // report destination, stdout when nil
	LogOutput io.Writer      // log destination, stderr when nil
	Fetcher   domain.Fetcher // replaces the HTTP client when set
}

// SourceInfo describes one blocklist source listed in the manifest
type SourceInfo struct {
	Location string
	Kind     SourceKind
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config

	// Validate config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	// Create logger
	logLevel := "info"
	logFormat := "pretty"
	if cfg.Logging.Level != "" {
		logLevel = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" {
		logFormat = cfg.Logging.Format
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  logFormat,
		Output:  opts.LogOutput,
		Verbose: opts.Verbose,
	})

	// Create dependencies
	var deps *Dependencies
	if opts.Fetcher != nil {
		deps = &Dependencies{Fetcher: opts.Fetcher}
	} else {
		var err error
		deps, err = NewDependencies(DependencyOptions{
			Timeout:     cfg.Fetch.Timeout,
			MaxRetries:  cfg.Fetch.MaxRetries,
			UserAgent:   cfg.Fetch.UserAgent,
			ProxyURL:    cfg.Fetch.Proxy,
			EnableCache: cfg.Cache.Enabled,
			CacheTTL:    cfg.Cache.TTL,
			CacheDir:    cfg.Cache.Directory,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create dependencies: %w", err)
		}
	}

	return &Orchestrator{
		config: cfg,
		deps:   deps,
		loader: loader.New(deps.Fetcher, logger, loader.Options{
			AllowlistPath: cfg.Sources.Allowlist,
			ManifestPath:  cfg.Sources.Manifest,
			Progress:      cfg.Output.Progress,
		}),
		writer: output.NewWriter(output.WriterOptions{
			Output: opts.Output,
			Format: cfg.Output.Format,
		}),
		logger: logger,
	}, nil
}

// Run loads every list, cross-references them and writes the report.
// Unreadable sources are skipped; only cancellation and report write
// failures are returned.
func (o *Orchestrator) Run(ctx context.Context) (*analyzer.Report, error) {
	startTime := time.Now()

	o.logger.Debug().
		Str("allowlist", o.config.Sources.Allowlist).
		Str("manifest", o.config.Sources.Manifest).
		Bool("cache", o.config.Cache.Enabled).
		Msg("Starting list audit")

	block := o.loader.LoadBlockLists(ctx)
	allow := o.loader.LoadAllowLists(ctx)

	if ctx.Err() != nil {
		o.logger.Warn().Msg("Audit cancelled")
		return nil, ctx.Err()
	}

	report := analyzer.Analyze(allow, block)
	if err := o.writer.Write(report); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	o.logger.Debug().
		Dur("duration", time.Since(startTime)).
		Int("unmatched_lists", len(report.Unmatched)).
		Int("subsets", len(report.Subsets)).
		Msg("List audit completed")

	return report, nil
}

// Sources returns the blocklist sources listed in the configured manifest
func (o *Orchestrator) Sources() ([]SourceInfo, error) {
	return ListSources(o.config.Sources.Manifest)
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.deps != nil {
		return o.deps.Close()
	}
	return nil
}

// ListSources reads the manifest at path and classifies its sources
func ListSources(path string) ([]SourceInfo, error) {
	locations, err := manifest.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}

	sources := make([]SourceInfo, 0, len(locations))
	for _, loc := range locations {
		sources = append(sources, SourceInfo{Location: loc, Kind: DetectSourceKind(loc)})
	}
	return sources, nil
}
