package model

import "time"

// PageRecord represents one crawled page.
// A record is immutable once created: the first fetch outcome observed for a
// URL is authoritative, and later rediscoveries of the same page never
// overwrite it.
type PageRecord struct {
	// URL is the normalized URL of the page.
	// Exactly one record exists per normalized URL.
	URL string `json:"url"`

	// Title is the page title extracted from the <title> tag.
	// Empty for non-HTML content and for pages recorded with a
	// non-200 status code.
	Title string `json:"title"`

	// StatusCode is the HTTP response status code.
	// Non-200 codes (404, 500, 301, ...) are recorded as data, not
	// treated as crawl failures.
	StatusCode int `json:"status_code"`
}

// CrawlResult holds the complete outcome of one crawl over a single domain.
// It is handed to the export writers once the work queue has drained.
type CrawlResult struct {
	// Domain is the root URL the crawl was confined to,
	// e.g. "https://example.com".
	Domain string `json:"domain"`

	// StartedAt is the wall-clock time the crawl began.
	// Export filenames are derived from this timestamp.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total crawl duration.
	Elapsed time.Duration `json:"elapsed"`

	// Records contains one PageRecord per distinct page, in the order
	// the pages were first recorded.
	Records []PageRecord `json:"records"`

	// PagesSkipped counts pages that hit a transport-level failure
	// (DNS, timeout, TLS). Skipped pages produce no record.
	PagesSkipped int `json:"pages_skipped"`

	// TimedOut reports whether the crawl stopped early because the
	// overall crawl deadline expired. The records collected up to that
	// point are still valid and are exported as partial results.
	TimedOut bool `json:"timed_out,omitempty"`
}

// NewCrawlResult creates an empty CrawlResult for the given domain root.
func NewCrawlResult(domain string) *CrawlResult {
	return &CrawlResult{
		Domain:    domain,
		StartedAt: time.Now(),
		Records:   make([]PageRecord, 0),
	}
}

// PagesVisited returns the number of pages that produced a record.
func (r *CrawlResult) PagesVisited() int {
	return len(r.Records)
}

// DeadLinks returns the records whose status code indicates a client or
// server error (4xx/5xx). Reporting dead links is the main reason non-200
// responses are recorded rather than discarded.
func (r *CrawlResult) DeadLinks() []PageRecord {
	dead := make([]PageRecord, 0)
	for _, rec := range r.Records {
		if rec.StatusCode >= 400 {
			dead = append(dead, rec)
		}
	}
	return dead
}
