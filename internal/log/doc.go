// Package log provides logging utilities for sitemapper.
//
// The package wraps standard log/slog handlers with a TruncateHandler that
// caps attribute values at a readable length. Crawl logs carry URLs, titles,
// and transport error strings straight from arbitrary web pages; without a
// cap a single hostile or broken page can flood the terminal.
package log
