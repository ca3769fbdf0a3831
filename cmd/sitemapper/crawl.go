package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yomogi/sitemapper/internal/batch"
	"github.com/yomogi/sitemapper/internal/config"
	"github.com/yomogi/sitemapper/internal/crawler"
	"github.com/yomogi/sitemapper/internal/export"
	"github.com/yomogi/sitemapper/internal/log"
	"github.com/yomogi/sitemapper/internal/model"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [domain-root]",
		Short: "Crawl a website and produce a site map",
		Long: `Crawl visits every reachable page on the given domain exactly once,
starting from the seed URL, and records each page's URL, title, and HTTP
status code.

Only links to the same domain are followed. Requests are rate limited
(2.5 per second by default) so the crawl stays polite. Pages that return
an error status are recorded with their status code but not followed.

Examples:
  # Crawl a site and print CSV to stdout
  sitemapper crawl --stdout https://example.com

  # Crawl several sites concurrently
  sitemapper crawl https://example.com https://example.org

  # Start from a section instead of the front page
  sitemapper crawl --seed /docs/ https://example.com

  # Slow down for a fragile server and cap the page count
  sitemapper crawl --rate 0.5 --max-pages 100 https://example.com

  # Export JSON into a directory
  sitemapper crawl --json -o ./reports https://example.com

Configuration file (.sitemapper) example:
  defaults:
    requestsPerSecond: 2.0
  sites:
    example.com:
      userAgent: "mybot/2.0"
      maxPages: 500
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringP("seed", "s", config.DefaultSeedPath,
		"Path to start crawling from, relative to the domain root")
	cmd.Flags().Float64P("rate", "r", config.DefaultMaxRequestsPerSecond,
		"Maximum requests per second")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to visit per site (0 = unlimited)")
	cmd.Flags().DurationP("timeout", "t", 0,
		"Overall crawl deadline per site (0 = no deadline)")
	cmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout,
		"Timeout for each individual page fetch")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Batch crawling flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of sites crawled concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitemapper in current or home directory)")

	// Export flags
	cmd.Flags().BoolP("json", "j", false,
		"Export JSON (mutually exclusive with --markdown; default is CSV)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Export Markdown (mutually exclusive with --json; default is CSV)")
	cmd.Flags().StringP("output-dir", "o", "",
		"Directory to write the site map into (default: XDG data dir)")
	cmd.Flags().Bool("stdout", false,
		"Write the site map to stdout instead of a file")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.SeedPath, err = cmd.Flags().GetString("seed")
	if err != nil {
		return nil, err
	}

	cfg.MaxRequestsPerSecond, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.CrawlTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("fetch-timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONExport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownExport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = config.XDGDataDir()
	}

	cfg.Stdout, err = cmd.Flags().GetBool("stdout")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional arguments (domain roots)
	cfg.Domains = args

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"domains", cfg.Domains,
		"seedPath", cfg.SeedPath,
		"rate", cfg.MaxRequestsPerSecond,
		"batchSize", cfg.BatchSize,
	)

	// Use the batch processor for concurrent crawling if multiple sites
	if len(cfg.Domains) > 1 && cfg.BatchSize > 1 {
		return runBatchCrawl(ctx, cfg, logger)
	}

	return runSequentialCrawl(ctx, cfg, logger)
}

// runSequentialCrawl crawls sites one at a time.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var lastErr error
	succeeded := 0

	for _, root := range cfg.Domains {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		spider, site := spiderForSite(cfg, root, logger)

		fmt.Fprintf(os.Stderr, "Crawling %s...\n", root)
		startTime := time.Now()

		result, err := crawlSite(ctx, cfg, spider, root, site)
		if err != nil {
			logger.Error("crawl failed", "site", root, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", root, err)
			lastErr = err
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "Crawl completed in %s\n", elapsed.Round(time.Millisecond))
		printSummary(result)

		if err := outputResult(cfg, result); err != nil {
			logger.Error("export failed", "site", root, "error", err)
			return err
		}
		succeeded++
	}

	if succeeded == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

// runBatchCrawl crawls multiple sites concurrently using the batch processor.
func runBatchCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	fmt.Fprintf(os.Stderr, "Starting batch crawl of %d sites (concurrency: %d)...\n\n",
		len(cfg.Domains), cfg.BatchSize)

	startTime := time.Now()

	processor := batch.NewProcessor(
		func(root string) (*crawler.Spider, error) {
			spider, _ := spiderForSite(cfg, root, logger)
			return spider, nil
		},
		batch.WithConcurrency(cfg.BatchSize),
		batch.WithLogger(logger),
	)

	// The crawl deadline covers the whole batch; sites crawled
	// concurrently share the wall clock anyway.
	ctx, cancel := crawlContextCancel(ctx, cfg)
	defer cancel()

	results, err := processor.Process(ctx, cfg.Domains, cfg.SeedPath)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		// A deadline firing mid-batch still leaves partial results
		// worth exporting; anything else aborts the batch.
		return err
	}

	succeeded := 0
	for i, result := range results {
		if result == nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Crawl failed: %s\n", i+1, len(results), cfg.Domains[i])
			continue
		}

		fmt.Fprintf(os.Stderr, "[%d/%d] Crawl completed: %s\n", i+1, len(results), cfg.Domains[i])
		printSummary(result)

		if err := outputResult(cfg, result); err != nil {
			logger.Error("export failed", "site", cfg.Domains[i], "error", err)
			return err
		}
		succeeded++
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "\nBatch crawl completed in %s\n", elapsed.Round(time.Millisecond))

	if succeeded == 0 {
		return errors.New("all crawls failed")
	}
	return nil
}

// crawlSite runs a single site crawl, applying the per-site seed path and
// the overall crawl deadline.
func crawlSite(ctx context.Context, cfg *config.Config, spider *crawler.Spider, root string, site config.SiteConfig) (*model.CrawlResult, error) {
	seedPath := cfg.SeedPath
	if site.SeedPath != "" {
		seedPath = site.SeedPath
	}

	ctx, cancel := crawlContextCancel(ctx, cfg)
	defer cancel()

	return spider.Crawl(ctx, root, seedPath)
}

// crawlContextCancel applies the overall crawl deadline to ctx, if one
// is set.
func crawlContextCancel(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.CrawlTimeout > 0 {
		return context.WithTimeout(ctx, cfg.CrawlTimeout)
	}
	return context.WithCancel(ctx)
}

// spiderForSite builds a spider for the given domain root, applying any
// site-specific configuration from the config file.
func spiderForSite(cfg *config.Config, root string, logger *slog.Logger) (*crawler.Spider, config.SiteConfig) {
	site := siteConfigFor(cfg, root)

	userAgent := cfg.UserAgent
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}

	rate := cfg.MaxRequestsPerSecond
	if site.RequestsPerSecond > 0 {
		rate = site.RequestsPerSecond
	}

	maxPages := cfg.MaxPages
	if site.MaxPages > 0 {
		maxPages = site.MaxPages
	}

	fetcherOpts := []crawler.FetcherOption{
		crawler.WithUserAgent(userAgent),
	}
	if cfg.MaxBodySize > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithMaxBodySize(cfg.MaxBodySize))
	}
	if len(site.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithHeaders(site.Headers))
	}

	fetcher := crawler.NewFetcher(crawler.NewHTTPClient(cfg.FetchTimeout), fetcherOpts...)

	return crawler.NewSpider(fetcher,
		crawler.WithRequestsPerSecond(rate),
		crawler.WithMaxPages(maxPages),
		crawler.WithSpiderLogger(logger),
	), site
}

// siteConfigFor returns the site-specific configuration for a domain root.
// Falls back to defaults if no site-specific config exists.
func siteConfigFor(cfg *config.Config, root string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}

	u, err := url.Parse(root)
	if err != nil || u.Host == "" {
		return cfg.SiteConfigs.Defaults
	}

	return cfg.SiteConfigs.GetSiteConfig(u.Host)
}

// printSummary prints a one-line crawl summary to stderr.
func printSummary(result *model.CrawlResult) {
	status := ""
	if result.TimedOut {
		status = " (timed out, partial results)"
	}
	fmt.Fprintf(os.Stderr, "  %d pages visited, %d skipped%s\n",
		result.PagesVisited(), result.PagesSkipped, status)
}

// outputResult exports the crawl result in the requested format.
// A crawl that recorded nothing (every page skipped) produces no export;
// there is no site map to write.
func outputResult(cfg *config.Config, result *model.CrawlResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintln(os.Stderr, "  no pages recorded, skipping export")
		return nil
	}

	format := export.FormatCSV
	switch {
	case cfg.JSONExport:
		format = export.FormatJSON
	case cfg.MarkdownExport:
		format = export.FormatMarkdown
	}

	if cfg.Stdout {
		writer := export.NewWriter(format, os.Stdout)
		if _, err := writer.Write(result); err != nil {
			return fmt.Errorf("%w: %w", export.ErrExportFailed, err)
		}
		return nil
	}

	path, err := export.WriteFile(cfg.OutputDir, result, format)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "  site map written to %s\n", path)
	return nil
}
