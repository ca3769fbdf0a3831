// Package config provides configuration structures and utilities for
// sitemapper. It defines the main configuration options for crawling,
// politeness limits, and export preferences.
package config
