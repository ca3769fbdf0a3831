package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yomogi/sitemapper/internal/model"
)

// Spider drives the traversal over the discovered link graph.
// It pulls the next candidate URL from an explicit FIFO work queue, consults
// the Store to avoid revisits, fetches and extracts, and enqueues newly
// discovered candidates until no candidates remain.
//
// Design decision: We use an iterative loop over an explicit queue rather
// than recursing per discovered link because recursion depth would grow with
// link-graph depth and risk stack exhaustion on deep or cyclic sites. With a
// queue, auxiliary memory is proportional to frontier size instead.
type Spider struct {
	// fetcher performs the per-page HTTP fetch.
	fetcher *Fetcher

	// limiter enforces the global fetch rate ceiling.
	limiter *Limiter

	// maxPages limits the total number of pages fetched.
	// 0 means unlimited.
	maxPages int

	// logger is used for structured logging during the crawl.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the maximum number of pages to fetch.
// This prevents runaway crawling on large or generative sites.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithRequestsPerSecond sets the global fetch rate ceiling.
func WithRequestsPerSecond(rps float64) SpiderOption {
	return func(s *Spider) {
		s.limiter = NewLimiter(rps)
	}
}

// WithSpiderLogger sets a custom logger.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a new Spider using the given Fetcher.
// By default the rate ceiling is ~2.5 requests per second and the page count
// is unlimited.
func NewSpider(fetcher *Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher: fetcher,
		limiter: NewLimiter(defaultRequestsPerSecond),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Crawl visits every reachable same-domain page exactly once, starting from
// domainRoot joined with seedPath, and returns one PageRecord per distinct
// page in discovery order.
//
// Outcome handling per fetched URL:
//   - 200: a record with the page title; HTML bodies contribute new
//     candidates to the queue
//   - any other status: a record with that status code and no title; the
//     body is not trusted for link extraction
//   - transport failure: no record, the page is skipped and the crawl
//     continues
//
// If the context expires mid-crawl the spider stops issuing fetches and
// returns the records collected so far with TimedOut set; partial results
// on timeout are expected, not an error. Context cancellation (e.g. SIGINT)
// also returns partial results, along with the context's error.
func (s *Spider) Crawl(ctx context.Context, domainRoot, seedPath string) (*model.CrawlResult, error) {
	root, err := url.Parse(domainRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid domain root %q: %w", domainRoot, err)
	}
	if root.Scheme != "http" && root.Scheme != "https" || root.Host == "" {
		return nil, fmt.Errorf("invalid domain root %q: must be an absolute http(s) URL", domainRoot)
	}

	seed := *root
	if seedPath != "" {
		seed.Path = seedPath
	}

	start := time.Now()
	result := model.NewCrawlResult(Normalize(root.String()))
	store := NewStore()

	// The frontier: all pending candidates. FIFO order gives a
	// breadth-first traversal with the same dedup guarantees as the
	// recursive-descent equivalent.
	queue := []string{Normalize(seed.String())}

	pagesFetched := 0
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return s.finish(ctx, result, store, start)
		default:
		}

		if s.maxPages > 0 && pagesFetched >= s.maxPages {
			s.logger.Warn("page cap reached, stopping crawl",
				"maxPages", s.maxPages,
				"frontier", len(queue),
			)
			break
		}

		// Pop the next candidate. A candidate is consumed exactly once:
		// either it was already visited and is discarded here, or it is
		// fetched below and becomes a record (or a skip).
		candidate := queue[0]
		queue = queue[1:]

		if !store.Visit(candidate) {
			continue
		}

		// Politeness gate: every fetch start waits on the same limiter.
		if err := s.limiter.Wait(ctx); err != nil {
			return s.finish(ctx, result, store, start)
		}

		fetched, err := s.fetcher.Fetch(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return s.finish(ctx, result, store, start)
			}
			// Transport failure: skip this page, keep crawling.
			s.logger.Warn("skipping page after transport failure",
				"url", candidate,
				"error", err,
			)
			result.PagesSkipped++
			continue
		}
		pagesFetched++

		switch {
		case fetched.StatusCode == http.StatusOK && fetched.IsHTML():
			title, candidates := s.extract(candidate, fetched.Body)
			store.Add(candidate, title, http.StatusOK)
			for _, c := range candidates {
				if !store.Exists(c) {
					queue = append(queue, c)
				}
			}
		case fetched.StatusCode == http.StatusOK:
			// Non-HTML 200 (images, PDFs, ...): recorded, nothing
			// to extract.
			store.Add(candidate, "", http.StatusOK)
		default:
			store.Add(candidate, "", fetched.StatusCode)
		}

		s.logger.Debug("page visited",
			"url", candidate,
			"status", fetched.StatusCode,
			"frontier", len(queue),
		)
	}

	result.Records = store.AllRecords()
	result.Elapsed = time.Since(start)
	return result, nil
}

// extract parses an HTML body and returns the title and link candidates.
// Parse failures degrade to an untitled record rather than failing the page:
// we did fetch it, so it is part of the census.
func (s *Spider) extract(pageURL string, body []byte) (string, []string) {
	parser, err := NewParser(pageURL)
	if err != nil {
		return "", nil
	}

	parsed, err := parser.Parse(strings.NewReader(string(body)))
	if err != nil {
		s.logger.Warn("failed to parse page body",
			"url", pageURL,
			"error", err,
		)
		return "", nil
	}

	return parsed.Title, parsed.Candidates
}

// finish assembles a partial result after the context ended mid-crawl.
// Deadline expiry is an expected outcome and returns a nil error;
// cancellation propagates the context error so callers can distinguish an
// interrupted run.
func (s *Spider) finish(ctx context.Context, result *model.CrawlResult, store *Store, start time.Time) (*model.CrawlResult, error) {
	result.Records = store.AllRecords()
	result.Elapsed = time.Since(start)

	// ctx.Err() can still be nil here when the limiter refused to wait
	// because the remaining deadline was too short; that is a timeout too.
	if ctx.Err() == nil || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		s.logger.Warn("crawl deadline expired, exporting partial results",
			"pages", len(result.Records),
		)
		return result, nil
	}
	return result, ctx.Err()
}
