// Package main provides the entry point for the sitemapper CLI.
//
// Sitemapper crawls a website, visiting every reachable page on the same
// domain exactly once, and produces a tabular site map of URL, page title,
// and HTTP status code. It is polite by default: requests are rate limited
// so the crawl never hammers the target.
//
// Usage:
//
//	sitemapper crawl https://example.com
//	sitemapper crawl --json https://example.com
//
// See --help for all available options.
package main

// main is the entry point for sitemapper.
func main() {
	Execute()
}
