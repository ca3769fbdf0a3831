// Package batch provides concurrent crawling of multiple independent sites.
//
// Each site is crawled by its own spider so that per-site politeness limits
// never interact: crawling three domains at once does not slow any one of
// them down, and a slow site cannot starve the others.
//
// Design decision: We use a separate batch package instead of teaching the
// spider about multiple domains because:
// 1. It keeps the spider focused on a single-domain traversal
// 2. Each site keeps its own rate limiter and visited set
// 3. Concurrency control stays in one place using errgroup
package batch
