package crawler

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// Fetcher performs the per-page HTTP fetch and classifies the outcome.
//
// The outcome taxonomy is deliberate and load-bearing:
//
//   - A response with any status code (200, 404, 301, 500, ...) is data:
//     Fetch returns a FetchResult and a nil error. Dead links are the
//     census output this tool exists to report, so a 404 is a recorded
//     outcome, never a crawl failure.
//   - A connection-level failure (DNS, timeout, TLS) returns a nil result
//     and a non-nil error. The page is skipped entirely: no record is
//     fabricated for a page we never saw.
//
// Conflating the two would poison the result set with invented records, so
// callers branch on the returned error before looking at the status code.
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// headers are extra headers added to every request.
	headers map[string]string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// FetchResult holds a classified HTTP response.
type FetchResult struct {
	// StatusCode is the HTTP status code returned by the server.
	// Redirect (3xx) statuses are reported verbatim; the client never
	// follows them.
	StatusCode int

	// ContentType is the MIME type from the Content-Type header.
	ContentType string

	// Body is the response body, truncated to the configured limit.
	// Only read for 200 responses; error pages are recorded without a
	// body because their content is not assumed parseable.
	Body []byte
}

// IsHTML reports whether the response content type indicates HTML.
// Content-Type values arrive with arbitrary casing and parameters
// ("Text/HTML; charset=iso-8859-1"), so the header is parsed as a media
// type rather than compared as a string.
func (r *FetchResult) IsHTML() bool {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHeaders sets extra headers added to every request.
// Useful for sites that require authentication headers to crawl.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
//
// Design decision: We require an external client because:
//  1. Redirect and timeout policy belong to the caller (see NewHTTPClient)
//  2. Tests can supply a client bound to an httptest server
//  3. Consistent with how the spider is wired together
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "sitemapper/1.0 (+https://github.com/yomogi/sitemapper)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NewHTTPClient returns an HTTP client configured for crawling.
// Redirects are never followed: a 301/302 is a terminal recorded status,
// not an instruction, so the crawler reports redirects as data and leaves
// resolving them to the reader of the export.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Fetch performs a GET request for the URL and classifies the outcome.
// A non-nil error means a transport-level failure; the page should be
// skipped without creating a record. Otherwise the returned FetchResult
// carries the status code, and for 200 responses the body.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on read path

	result := &FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	// Only a 200 page contributes a title and new candidates, so the body
	// of everything else is discarded unread.
	if resp.StatusCode != http.StatusOK {
		return result, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		// A connection that dies mid-body is a transport failure,
		// same as one that never connected.
		return nil, fmt.Errorf("read body of %s: %w", pageURL, err)
	}
	result.Body = body

	return result, nil
}
