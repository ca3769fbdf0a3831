package config

import "maps"

// SiteConfig holds site-specific configuration for a single domain.
// This allows customizing crawl behavior per site without new CLI flags.
type SiteConfig struct {
	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page cap for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// RequestsPerSecond overrides the global rate ceiling for this site.
	// If zero, the global MaxRequestsPerSecond is used. This can only
	// lower or raise the per-site ceiling; it remains a hard global
	// limit for that site's crawl.
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`

	// SeedPath overrides the path the crawl starts from on this site.
	SeedPath string `yaml:"seedPath,omitempty"`
}

// File represents the structure of the .sitemapper configuration file.
type File struct {
	// Sites maps domain hosts to their site-specific configurations.
	// Keys should be the host without the protocol (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific domain host.
// It merges the site-specific configuration with defaults.
//
// The returned Headers map is always a fresh copy. A struct copy of
// Defaults would alias the defaults' Headers map, and merging a site's
// headers through that alias would leak them (Authorization included)
// into every later lookup.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		maps.Copy(result.Headers, cf.Defaults.Headers)
	}

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.RequestsPerSecond != 0 {
			result.RequestsPerSecond = siteConfig.RequestsPerSecond
		}
		if siteConfig.SeedPath != "" {
			result.SeedPath = siteConfig.SeedPath
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string, len(siteConfig.Headers))
			}
			maps.Copy(result.Headers, siteConfig.Headers)
		}
	}

	return result
}
