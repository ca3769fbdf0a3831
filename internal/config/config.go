package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to keep the crawler polite by default: the rate
// ceiling is the load-bearing setting, everything else is a safety valve.
const (
	// DefaultMaxRequestsPerSecond is the global request rate ceiling.
	// 2.5 requests per second means a minimum gap of 400ms between the
	// start of two consecutive fetches. This is a hard ceiling for the
	// whole crawl, not a per-branch budget: link depth must never be
	// able to multiply effective throughput against the target host.
	DefaultMaxRequestsPerSecond = 2.5

	// DefaultSeedPath is the path the crawl starts from, relative to
	// the domain root.
	DefaultSeedPath = "/"

	// DefaultFetchTimeout is the timeout for each individual HTTP request.
	// 30 seconds is generous enough for slow origins without letting a
	// single hung connection stall the crawl indefinitely.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultMaxPages caps the total number of pages fetched per domain.
	// This prevents runaway crawling on large or infinitely-generating
	// sites (calendars, faceted search). 0 means unlimited.
	DefaultMaxPages = 0

	// DefaultBatchSize is the number of domains crawled concurrently when
	// multiple seeds are given. Each crawl keeps its own rate limiter, so
	// politeness per host is unaffected by the batch size.
	DefaultBatchSize = 3

	// DefaultUserAgent identifies sitemapper in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "sitemapper/1.0 (+https://github.com/yomogi/sitemapper)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "sitemapper"
)

// Config holds all configuration options for sitemapper.
// This struct is populated from CLI flags and passed through the application
// via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ExportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Domains is the list of domain roots to crawl,
	// e.g. "https://example.com". At least one is required.
	// Each domain is crawled independently; a crawl never follows
	// links off its own domain.
	Domains []string

	// SeedPath is the path the crawl starts from on each domain.
	SeedPath string

	// MaxRequestsPerSecond is the global fetch rate ceiling per crawl.
	MaxRequestsPerSecond float64

	// MaxPages caps the total pages fetched per domain. 0 = unlimited.
	MaxPages int

	// CrawlTimeout is the overall deadline for each crawl. On expiry the
	// crawler stops issuing fetches and exports whatever records exist so
	// far; partial results on timeout are expected, not an error.
	// 0 means no deadline.
	CrawlTimeout time.Duration

	// FetchTimeout is the timeout for each individual HTTP request.
	FetchTimeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger responses are truncated. 0 means use the default.
	MaxBodySize int64

	// BatchSize is the number of domains crawled concurrently.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONExport enables JSON export instead of CSV.
	// Mutually exclusive with MarkdownExport.
	JSONExport bool

	// MarkdownExport enables Markdown export instead of CSV.
	// Mutually exclusive with JSONExport.
	MarkdownExport bool

	// OutputDir is the directory export files are written to.
	// Empty means the current working directory.
	OutputDir string

	// Stdout writes the export to standard output instead of a file.
	Stdout bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitemapper in the current
	// directory, the user's home directory, and the XDG config
	// directory, in that order.
	ConfigFilePath string

	// SiteConfigs holds per-site configurations loaded from the config
	// file. Populated by LoadConfigFile and consulted per domain.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., rate ceiling,
// fetch timeout). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		SeedPath:             DefaultSeedPath,
		MaxRequestsPerSecond: DefaultMaxRequestsPerSecond,
		MaxPages:             DefaultMaxPages,
		FetchTimeout:         DefaultFetchTimeout,
		UserAgent:            DefaultUserAgent,
		MaxBodySize:          DefaultMaxBodySize,
		BatchSize:            DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for sitemapper.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sitemapper
// On macOS: ~/Library/Application Support/sitemapper
// On Windows: %LOCALAPPDATA%\sitemapper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitemapper.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/sitemapper
// On macOS: ~/Library/Application Support/sitemapper
// On Windows: %APPDATA%\sitemapper
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one domain root to crawl
	if len(c.Domains) == 0 {
		return ErrNoDomain
	}

	// Every domain root must be an absolute http(s) URL with a host
	for _, domain := range c.Domains {
		u, err := url.Parse(domain)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
		}
	}

	// The rate ceiling must be positive; zero would mean no fetching at
	// all, and a negative ceiling is meaningless
	if c.MaxRequestsPerSecond <= 0 {
		return ErrInvalidRate
	}

	// FetchTimeout must be positive; zero timeout would cause immediate
	// request failures
	if c.FetchTimeout <= 0 {
		return ErrInvalidFetchTimeout
	}

	// CrawlTimeout must be non-negative; 0 disables the deadline
	if c.CrawlTimeout < 0 {
		return ErrInvalidCrawlTimeout
	}

	// MaxPages must be non-negative; 0 means unlimited
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// BatchSize must be positive; zero would mean no crawling
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONExport and MarkdownExport are mutually exclusive
	if c.JSONExport && c.MarkdownExport {
		return ErrConflictingExportFormats
	}

	return nil
}
