package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestSite returns an httptest server hosting a small site with a link
// cycle, a dead link, an external link, and assorted hrefs that must be
// filtered out.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Home</title></head><body>
			<a href="/a">A</a>
			<a href="/missing">Dead</a>
			<a href="https://other.example/">External</a>
			<a href="#frag">Fragment</a>
			<a href="">Empty</a>
		</body></html>`)
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		// Links back to the root form a cycle; /b/ exercises the
		// trailing-slash normalization.
		fmt.Fprint(w, `<html><head><title>Page A</title></head><body>
			<a href="/">Home</a>
			<a href="/b/">B</a>
		</body></html>`)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Page B</title></head><body>
			<a href="/a">A</a>
		</body></html>`)
	})

	return httptest.NewServer(mux)
}

// TestSpiderCrawl tests the traversal end to end against a local site.
func TestSpiderCrawl(t *testing.T) {
	t.Parallel()

	t.Run("visits every reachable page exactly once", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t)
		defer server.Close()

		fetcher := NewFetcher(server.Client())
		spider := NewSpider(fetcher, WithRequestsPerSecond(1000))

		result, err := spider.Crawl(context.Background(), server.URL, "/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		// Root, /a, /b and /missing. The cycle terminates, the slash
		// variant /b/ collapses into /b, and the external, fragment
		// and empty links contribute nothing.
		if len(result.Records) != 4 {
			t.Fatalf("expected 4 records, got %d: %v", len(result.Records), result.Records)
		}

		byURL := make(map[string]int)
		for _, rec := range result.Records {
			byURL[rec.URL] = rec.StatusCode
		}

		root := Normalize(server.URL)
		wantStatus := map[string]int{
			root:              200,
			root + "/a":       200,
			root + "/b":       200,
			root + "/missing": 404,
		}
		for u, want := range wantStatus {
			got, ok := byURL[u]
			if !ok {
				t.Errorf("expected record for %q, have %v", u, byURL)
				continue
			}
			if got != want {
				t.Errorf("record %q: expected status %d, got %d", u, want, got)
			}
		}

		// The seed is always the first record
		if result.Records[0].URL != root {
			t.Errorf("expected seed record first, got %q", result.Records[0].URL)
		}
		if result.Records[0].Title != "Home" {
			t.Errorf("expected seed title 'Home', got %q", result.Records[0].Title)
		}
		if result.PagesSkipped != 0 {
			t.Errorf("expected no skipped pages, got %d", result.PagesSkipped)
		}
	})

	t.Run("dead link is recorded without title and contributes no candidates", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t)
		defer server.Close()

		fetcher := NewFetcher(server.Client())
		spider := NewSpider(fetcher, WithRequestsPerSecond(1000))

		result, err := spider.Crawl(context.Background(), server.URL, "/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		var dead []string
		for _, rec := range result.Records {
			if rec.StatusCode == 404 {
				dead = append(dead, rec.URL)
				if rec.Title != "" {
					t.Errorf("expected empty title on 404 record, got %q", rec.Title)
				}
			}
		}
		if len(dead) != 1 {
			t.Errorf("expected exactly 1 dead link, got %v", dead)
		}
	})

	t.Run("holds the aggregate rate ceiling", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t)
		defer server.Close()

		// 25 req/s over 4 fetches: wall clock must span at least
		// 3 * 40ms = 120ms.
		fetcher := NewFetcher(server.Client())
		spider := NewSpider(fetcher, WithRequestsPerSecond(25))

		start := time.Now()
		result, err := spider.Crawl(context.Background(), server.URL, "/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		elapsed := time.Since(start)

		fetches := len(result.Records)
		minimum := time.Duration(fetches-1) * 40 * time.Millisecond
		if elapsed < minimum {
			t.Errorf("%d fetches took %v, rate ceiling requires at least %v", fetches, elapsed, minimum)
		}
	})

	t.Run("transport failure on seed yields empty result not error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		seedURL := server.URL
		server.Close()

		fetcher := NewFetcher(NewHTTPClient(2 * time.Second))
		spider := NewSpider(fetcher, WithRequestsPerSecond(1000))

		result, err := spider.Crawl(context.Background(), seedURL, "/")
		if err != nil {
			t.Fatalf("expected crawl to continue past transport failure, got %v", err)
		}
		if len(result.Records) != 0 {
			t.Errorf("expected no records, got %v", result.Records)
		}
		if result.PagesSkipped != 1 {
			t.Errorf("expected 1 skipped page, got %d", result.PagesSkipped)
		}
	})

	t.Run("page cap stops the crawl", func(t *testing.T) {
		t.Parallel()

		// A chain /0 -> /1 -> /2 -> ... that would never end on its own
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			var n int
			_, _ = fmt.Sscanf(r.URL.Path, "/%d", &n)
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, `<html><head><title>%d</title></head><body><a href="/%d">next</a></body></html>`, n, n+1)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		fetcher := NewFetcher(server.Client())
		spider := NewSpider(fetcher, WithRequestsPerSecond(1000), WithMaxPages(3))

		result, err := spider.Crawl(context.Background(), server.URL, "/0")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(result.Records) != 3 {
			t.Errorf("expected 3 records under page cap, got %d", len(result.Records))
		}
	})

	t.Run("deadline expiry returns partial results without error", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
			var n int
			_, _ = fmt.Sscanf(r.URL.Path, "/%d", &n)
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, `<html><body><a href="/%d">next</a></body></html>`, n+1)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		fetcher := NewFetcher(server.Client())
		spider := NewSpider(fetcher, WithRequestsPerSecond(1000))

		result, err := spider.Crawl(ctx, server.URL, "/0")
		if err != nil {
			t.Fatalf("expected partial results on timeout, got error: %v", err)
		}
		if !result.TimedOut {
			t.Error("expected TimedOut to be set")
		}
		if len(result.Records) == 0 {
			t.Error("expected at least one record before the deadline")
		}
	})

	t.Run("non-html 200 is recorded without candidates", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><head><title>Home</title></head><body><a href="/data.txt">data</a></body></html>`)
		})
		mux.HandleFunc("/data.txt", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, `not html: <a href="/hidden">should not be followed</a>`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		fetcher := NewFetcher(server.Client())
		spider := NewSpider(fetcher, WithRequestsPerSecond(1000))

		result, err := spider.Crawl(context.Background(), server.URL, "/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if len(result.Records) != 2 {
			t.Fatalf("expected 2 records, got %d: %v", len(result.Records), result.Records)
		}
		for _, rec := range result.Records {
			if rec.URL == Normalize(server.URL)+"/hidden" {
				t.Error("links inside non-HTML bodies must not be followed")
			}
		}
	})

	t.Run("rejects non-http domain roots", func(t *testing.T) {
		t.Parallel()

		fetcher := NewFetcher(NewHTTPClient(time.Second))
		spider := NewSpider(fetcher)

		if _, err := spider.Crawl(context.Background(), "ftp://example.com", "/"); err == nil {
			t.Error("expected error for non-http scheme, got nil")
		}
		if _, err := spider.Crawl(context.Background(), "not a url", "/"); err == nil {
			t.Error("expected error for relative root, got nil")
		}
	})
}
