// Package crawler provides the crawl engine for sitemapper.
//
// # Architecture
//
// The package is designed around the Spider type, which coordinates the
// crawling process. It uses an explicit FIFO work queue to manage URLs to
// visit, a Store for deduplication and result accumulation, and a rate
// limiter that enforces the politeness ceiling.
//
// Design decision: We implement our own traversal loop rather than using a
// third-party crawling framework because:
//  1. We need tight control over request timing to honor the rate ceiling
//  2. The dedup discipline (first-writer-wins, normalized URLs) is the
//     core of the tool and should be directly testable
//  3. An explicit queue bounds memory by frontier size rather than
//     link-graph depth, where recursive descent would risk stack exhaustion
//
// # Components
//
//   - Spider: drives traversal over the discovered link graph
//   - Store: visited set plus ordered PageRecord accumulator
//   - Fetcher: performs HTTP requests and classifies outcomes
//   - Parser: extracts the title and same-domain link candidates from HTML
//   - Limiter: global fetch rate ceiling
//
// # Politeness
//
// The crawler enforces a hard global ceiling on outbound request rate
// (default ~2.5 requests per second, a 400ms minimum gap between fetch
// starts). The ceiling holds for the whole crawl regardless of how deep or
// densely linked the site is.
//
// # Usage
//
//	spider := crawler.NewSpider(fetcher, crawler.WithMaxPages(100))
//	result, err := spider.Crawl(ctx, "https://example.com", "/")
package crawler
