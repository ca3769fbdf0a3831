// Package model defines the core data structures used throughout sitemapper.
//
// This package contains the following main types:
//   - PageRecord: One crawled page (URL, title, HTTP status)
//   - CrawlResult: The complete outcome of a crawl, ready for export
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, export, batch) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output.
package model
