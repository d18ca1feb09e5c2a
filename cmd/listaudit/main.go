package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantmind-br/listaudit/internal/app"
	"github.com/quantmind-br/listaudit/internal/config"
	"github.com/quantmind-br/listaudit/internal/fetcher"
	"github.com/quantmind-br/listaudit/internal/parser"
	"github.com/quantmind-br/listaudit/internal/utils"
	"github.com/quantmind-br/listaudit/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// connectivityURL is checked by doctor when the manifest has remote sources
const connectivityURL = "https://www.google.com"

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependencies for testing
	checkInternet = pingURL
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "listaudit",
	Short: "Cross-check DNS blocklists against an allowlist",
	Long: `listaudit downloads the blocklists named in a manifest document,
reads a local allowlist and reports:

  - allowlist entries that no blocklist contains
  - blocklists that are subsets of other blocklists

Sources that cannot be read are logged and skipped.`,
	Version: version.Short(),
	Args:    cobra.NoArgs,
	RunE:    run,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./listaudit.yaml or ~/.listaudit/config.yaml)")
	rootCmd.PersistentFlags().String("allowlist", config.DefaultAllowlistPath, "Allowlist file")
	rootCmd.PersistentFlags().String("manifest", config.DefaultManifestPath, "Manifest listing blocklist sources")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Fetch flags
	rootCmd.Flags().Duration("timeout", config.DefaultTimeout, "Request timeout")
	rootCmd.Flags().Int("retries", config.DefaultMaxRetries, "Retries per remote source")
	rootCmd.Flags().String("user-agent", "", "Custom User-Agent")
	rootCmd.Flags().String("proxy", "", "Proxy URL for remote sources (http, https or socks5)")

	// Cache flags
	rootCmd.Flags().Bool("cache", config.DefaultCacheEnabled, "Cache downloaded lists")
	rootCmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL, "Cache TTL")

	// Output flags
	rootCmd.Flags().StringP("format", "f", config.DefaultOutputFormat, "Report format (text, json, yaml)")
	rootCmd.Flags().Bool("no-progress", false, "Hide the download progress bar")

	// Bind flags to viper
	_ = viper.BindPFlag("sources.allowlist", rootCmd.PersistentFlags().Lookup("allowlist"))
	_ = viper.BindPFlag("sources.manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	_ = viper.BindPFlag("fetch.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("fetch.max_retries", rootCmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("fetch.user_agent", rootCmd.Flags().Lookup("user-agent"))
	_ = viper.BindPFlag("fetch.proxy", rootCmd.Flags().Lookup("proxy"))
	_ = viper.BindPFlag("cache.enabled", rootCmd.Flags().Lookup("cache"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.Flags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("output.format", rootCmd.Flags().Lookup("format"))

	// Add subcommands
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the configuration and applies flags viper cannot bind
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		cfg.Output.Progress = false
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})
}

func run(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Initialize logger
	log = newLogger(cfg)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create orchestrator
	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config:  cfg,
		Verbose: verbose,
		Output:  cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	_, err = orchestrator.Run(ctx)
	return err
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the blocklist sources named in the manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
			Config:    cfg,
			Verbose:   verbose,
			LogOutput: cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("failed to create orchestrator: %w", err)
		}
		defer orchestrator.Close()

		sources, err := orchestrator.Sources()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, s := range sources {
			if verbose {
				fmt.Fprintf(out, "%s\t%s\n", s.Kind, s.Location)
			} else {
				fmt.Fprintln(out, s.Location)
			}
		}
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the list cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cache location and entry count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		c, err := app.OpenCache(cfg.Cache.Directory)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer c.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Directory: %s\n", utils.ExpandPath(cfg.Cache.Directory))
		fmt.Fprintf(out, "Entries: %d\n", c.Size())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		c, err := app.OpenCache(cfg.Cache.Directory)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer c.Close()

		n := c.Size()
		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries\n", n)
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check inputs and environment",
	Long:  "Verifies that the manifest and allowlist can be read and that remote sources are reachable.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking inputs and environment...")
		allPassed := true

		// Check 1: Config file
		fmt.Fprint(out, "  Config file: ")
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(out, "WARN (%v)\n", err)
			cfg = config.Default()
		} else if viper.ConfigFileUsed() == "" {
			fmt.Fprintf(out, "OK (defaults, %s not found)\n", config.ConfigFilePath())
		} else {
			fmt.Fprintf(out, "OK (%s)\n", viper.ConfigFileUsed())
		}

		// Check 2: Manifest
		fmt.Fprint(out, "  Manifest: ")
		sources, err := app.ListSources(cfg.Sources.Manifest)
		remote := 0
		if err != nil {
			fmt.Fprintf(out, "FAILED (%v)\n", err)
			allPassed = false
		} else {
			for _, s := range sources {
				if s.Kind.IsRemote() {
					remote++
				}
			}
			fmt.Fprintf(out, "OK (%d sources, %d remote)\n", len(sources), remote)
		}

		// Check 3: Allowlist
		fmt.Fprint(out, "  Allowlist: ")
		if n, err := checkAllowlist(cfg.Sources.Allowlist); err != nil {
			fmt.Fprintf(out, "FAILED (%v)\n", err)
			allPassed = false
		} else {
			fmt.Fprintf(out, "OK (%d domains)\n", n)
		}

		// Check 4: Internet connection
		fmt.Fprint(out, "  Internet connection: ")
		switch {
		case remote == 0:
			fmt.Fprintln(out, "SKIPPED (no remote sources)")
		case checkInternet(cmd.Context(), connectivityURL):
			fmt.Fprintln(out, "OK")
		default:
			fmt.Fprintln(out, "FAILED")
			allPassed = false
		}

		// Check 5: Cache directory
		fmt.Fprint(out, "  Cache directory: ")
		cacheDir := utils.ExpandPath(cfg.Cache.Directory)
		switch {
		case !cfg.Cache.Enabled:
			fmt.Fprintln(out, "DISABLED")
		case utils.IsDir(cacheDir):
			fmt.Fprintf(out, "OK (%s)\n", cacheDir)
		default:
			fmt.Fprintln(out, "WARN (will be created on first use)")
		}

		fmt.Fprintln(out)
		if allPassed {
			fmt.Fprintln(out, "All critical checks passed!")
		} else {
			fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkAllowlist returns the number of domains in the allowlist at path
func checkAllowlist(path string) (int, error) {
	text, err := fetcher.ReadLocal(utils.LocalPath(path))
	if err != nil {
		return 0, err
	}
	set, err := parser.Parse(text)
	if err != nil {
		return 0, err
	}
	return set.Len(), nil
}

// pingURL checks that url answers with a successful status
func pingURL(ctx context.Context, url string) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:  5 * time.Second,
		ProxyURL: viper.GetString("fetch.proxy"),
	})
	if err != nil {
		return false
	}
	defer client.Close()

	_, err = client.Get(ctx, url)
	return err == nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
