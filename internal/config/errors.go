package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoDomain is returned when no domain root is specified.
	// The crawler needs at least one domain root (e.g. https://example.com)
	// as a positional argument.
	ErrNoDomain = errors.New("no domain specified: provide a domain root such as https://example.com")

	// ErrInvalidDomain is returned when a domain root cannot be parsed or
	// does not use an http or https scheme.
	ErrInvalidDomain = errors.New("invalid domain root: must be an absolute http(s) URL")

	// ErrInvalidRate is returned when the request rate ceiling is not
	// positive. A non-positive rate would stall the crawl entirely.
	ErrInvalidRate = errors.New("invalid rate: max requests per second must be positive")

	// ErrInvalidFetchTimeout is returned when the per-request timeout is
	// not positive. A zero or negative timeout would cause immediate
	// connection failures.
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrInvalidCrawlTimeout is returned when the overall crawl deadline
	// is negative. Use 0 to disable the deadline.
	ErrInvalidCrawlTimeout = errors.New("invalid crawl timeout: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	// Use 0 for an unlimited crawl.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no domains are crawled at all.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingExportFormats is returned when both --json and
	// --markdown are specified. Only one export format can be used at a time.
	ErrConflictingExportFormats = errors.New("conflicting export formats: --json and --markdown cannot be used together")
)
