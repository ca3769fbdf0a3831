package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	// Verify each default value explicitly
	// This serves as living documentation of the defaults
	t.Run("default MaxRequestsPerSecond is 2.5", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxRequestsPerSecond != 2.5 {
			t.Errorf("expected MaxRequestsPerSecond to be 2.5, got %v", cfg.MaxRequestsPerSecond)
		}
	})

	t.Run("default SeedPath is /", func(t *testing.T) {
		t.Parallel()
		if cfg.SeedPath != "/" {
			t.Errorf("expected SeedPath to be '/', got %q", cfg.SeedPath)
		}
	})

	t.Run("default FetchTimeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.FetchTimeout != 30*time.Second {
			t.Errorf("expected FetchTimeout to be 30s, got %v", cfg.FetchTimeout)
		}
	})

	t.Run("default MaxPages is unlimited", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 0 {
			t.Errorf("expected MaxPages to be 0, got %d", cfg.MaxPages)
		}
	})

	t.Run("default CrawlTimeout is disabled", func(t *testing.T) {
		t.Parallel()
		if cfg.CrawlTimeout != 0 {
			t.Errorf("expected CrawlTimeout to be 0, got %v", cfg.CrawlTimeout)
		}
	})

	t.Run("default BatchSize is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 3 {
			t.Errorf("expected BatchSize to be 3, got %d", cfg.BatchSize)
		}
	})

	t.Run("default MaxBodySize is 5MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 5*1024*1024 {
			t.Errorf("expected MaxBodySize to be 5MB, got %d", cfg.MaxBodySize)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		return &Config{
			Domains:              []string{"https://example.com"},
			SeedPath:             "/",
			MaxRequestsPerSecond: 2.5,
			FetchTimeout:         30 * time.Second,
			BatchSize:            3,
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("multiple domains is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Domains = []string{"https://a.example.com", "https://b.example.com"}

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty domains returns ErrNoDomain", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Domains = nil

		err := cfg.Validate()
		if !errors.Is(err, ErrNoDomain) {
			t.Errorf("expected ErrNoDomain, got %v", err)
		}
	})

	t.Run("non-http scheme returns ErrInvalidDomain", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Domains = []string{"ftp://example.com"}

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidDomain) {
			t.Errorf("expected ErrInvalidDomain, got %v", err)
		}
	})

	t.Run("relative domain root returns ErrInvalidDomain", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Domains = []string{"example.com"}

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidDomain) {
			t.Errorf("expected ErrInvalidDomain, got %v", err)
		}
	})

	t.Run("zero rate returns ErrInvalidRate", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxRequestsPerSecond = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidRate) {
			t.Errorf("expected ErrInvalidRate, got %v", err)
		}
	})

	t.Run("negative rate returns ErrInvalidRate", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxRequestsPerSecond = -1

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidRate) {
			t.Errorf("expected ErrInvalidRate, got %v", err)
		}
	})

	t.Run("zero fetch timeout returns ErrInvalidFetchTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.FetchTimeout = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidFetchTimeout) {
			t.Errorf("expected ErrInvalidFetchTimeout, got %v", err)
		}
	})

	t.Run("negative crawl timeout returns ErrInvalidCrawlTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.CrawlTimeout = -time.Second

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidCrawlTimeout) {
			t.Errorf("expected ErrInvalidCrawlTimeout, got %v", err)
		}
	})

	t.Run("negative max pages returns ErrInvalidMaxPages", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxPages = -1

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidMaxPages) {
			t.Errorf("expected ErrInvalidMaxPages, got %v", err)
		}
	})

	t.Run("negative max body size returns ErrInvalidMaxBodySize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", err)
		}
	})

	t.Run("zero batch size returns ErrInvalidBatchSize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.BatchSize = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("json and markdown together returns ErrConflictingExportFormats", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONExport = true
		cfg.MarkdownExport = true

		err := cfg.Validate()
		if !errors.Is(err, ErrConflictingExportFormats) {
			t.Errorf("expected ErrConflictingExportFormats, got %v", err)
		}
	})
}

// TestLoadConfigFile tests loading site configurations from a YAML file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads valid config file", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  userAgent: "custom-agent/1.0"
sites:
  example.com:
    maxPages: 50
    requestsPerSecond: 1.0
    headers:
      Authorization: "Bearer token"
  other.com:
    seedPath: "/docs"
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if cf.Defaults.UserAgent != "custom-agent/1.0" {
			t.Errorf("expected default user agent 'custom-agent/1.0', got %q", cf.Defaults.UserAgent)
		}

		site := cf.GetSiteConfig("example.com")
		if site.MaxPages != 50 {
			t.Errorf("expected maxPages 50, got %d", site.MaxPages)
		}
		if site.RequestsPerSecond != 1.0 {
			t.Errorf("expected requestsPerSecond 1.0, got %v", site.RequestsPerSecond)
		}
		if site.UserAgent != "custom-agent/1.0" {
			t.Errorf("expected defaults to apply, got user agent %q", site.UserAgent)
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected Authorization header, got %v", site.Headers)
		}

		other := cf.GetSiteConfig("other.com")
		if other.SeedPath != "/docs" {
			t.Errorf("expected seedPath '/docs', got %q", other.SeedPath)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [unbalanced"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid yaml, got nil")
		}
	})

	t.Run("unknown site falls back to defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: SiteConfig{UserAgent: "default-agent"},
			Sites:    map[string]SiteConfig{},
		}

		site := cf.GetSiteConfig("unknown.com")
		if site.UserAgent != "default-agent" {
			t.Errorf("expected defaults for unknown site, got %q", site.UserAgent)
		}
	})

	t.Run("site headers never leak into other sites", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: SiteConfig{
				Headers: map[string]string{"X-Base": "base"},
			},
			Sites: map[string]SiteConfig{
				"a.com": {
					Headers: map[string]string{"Authorization": "secret-for-a"},
				},
			},
		}

		a := cf.GetSiteConfig("a.com")
		if a.Headers["X-Base"] != "base" {
			t.Errorf("expected default header for a.com, got %v", a.Headers)
		}
		if a.Headers["Authorization"] != "secret-for-a" {
			t.Errorf("expected site header for a.com, got %v", a.Headers)
		}

		// Merging a.com's headers must not write through to the shared
		// defaults map; b.com would then send a.com's credentials.
		b := cf.GetSiteConfig("b.com")
		if got, ok := b.Headers["Authorization"]; ok {
			t.Errorf("b.com inherited a.com's Authorization header %q", got)
		}
		if b.Headers["X-Base"] != "base" {
			t.Errorf("expected default header for b.com, got %v", b.Headers)
		}
		if cf.Defaults.Headers["Authorization"] != "" {
			t.Error("defaults map was mutated by a site merge")
		}

		// The merged map is a copy; caller mutations must not reach the
		// File either.
		a.Headers["X-Base"] = "tampered"
		if cf.Defaults.Headers["X-Base"] != "base" {
			t.Error("caller mutation reached the defaults map")
		}
	})
}

// TestFindConfigFile tests the configuration file search logic.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path that exists is returned", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "myconfig.yaml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit path that does not exist returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
