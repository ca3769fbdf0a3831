// Package export serializes crawl results into tabular output formats.
//
// This package contains writers for different output formats:
//   - CSVWriter: Comma-separated output, the default export format
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for documentation and sharing
//
// Design decision: We separate export writing from the crawl data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package export
