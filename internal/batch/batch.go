package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yomogi/sitemapper/internal/crawler"
	"github.com/yomogi/sitemapper/internal/model"
	"golang.org/x/sync/errgroup"
)

// SpiderFactory creates a spider configured for the given domain root.
// A factory is used so that each site gets a fresh spider with its own
// rate limiter and visited set, and so callers can apply per-site
// overrides (user agent, request rate, page cap).
type SpiderFactory func(domainRoot string) (*crawler.Spider, error)

// Processor crawls multiple independent sites concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type Processor struct {
	// factory creates a new spider for each site.
	factory SpiderFactory

	// concurrency is the maximum number of sites crawled at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed crawl results, indexed by site.
	// Access is synchronized via mutex.
	results []*model.CrawlResult
	mu      sync.Mutex
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets a custom logger for batch processing.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithConcurrency sets the maximum number of sites crawled concurrently.
// Default is 3 if not specified.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProcessor creates a new Processor.
//
// The factory function is called once per site to create a fresh spider.
// This ensures that crawl state never leaks between sites and allows
// per-site customization.
func NewProcessor(factory SpiderFactory, opts ...Option) *Processor {
	p := &Processor{
		factory:     factory,
		concurrency: 3,
		results:     make([]*model.CrawlResult, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Process crawls all the given domain roots concurrently, starting each
// crawl at seedPath. It respects the configured concurrency limit and
// context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each site gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Results are returned in the same order as domainRoots. A site whose
// crawl failed outright (invalid root, transport failure on the seed with
// no pages recorded) leaves a nil entry; partial results from a timed-out
// crawl are kept. The error return indicates cancellation, not per-site
// failures.
func (p *Processor) Process(ctx context.Context, domainRoots []string, seedPath string) ([]*model.CrawlResult, error) {
	p.logger.Info("starting batch crawl",
		"total_sites", len(domainRoots),
		"concurrency", p.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	p.results = make([]*model.CrawlResult, len(domainRoots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, root := range domainRoots {
		i, root := i, root
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			p.logger.Info("crawling site",
				"site", root,
				"index", i+1,
				"total", len(domainRoots),
			)

			spider, err := p.factory(root)
			if err != nil {
				p.logger.Warn("skipping site",
					"site", root,
					"error", err,
				)
				// Don't return the error to errgroup so other sites continue
				return nil
			}

			result, err := spider.Crawl(ctx, root, seedPath)

			// Store the result regardless of error. A timed-out crawl
			// still carries the pages it managed to visit.
			p.mu.Lock()
			p.results[i] = result
			p.mu.Unlock()

			if err != nil {
				p.logger.Warn("crawl failed",
					"site", root,
					"error", err,
				)
				return nil
			}

			p.logger.Info("crawl completed",
				"site", root,
				"pages", result.PagesVisited(),
			)

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	p.logger.Info("batch crawl complete",
		"total_sites", len(domainRoots),
		"elapsed", elapsed,
	)

	return p.results, err
}
