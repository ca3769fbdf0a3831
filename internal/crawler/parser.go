package crawler

import (
	"io"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Parser extracts the page title and same-domain link candidates from HTML.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. It provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//  4. Standard library extension, well-maintained
//
// The Parser is pure: it never consults the Store, so it can be tested
// against literal HTML fixtures in isolation. Dedup against already-visited
// pages happens in the Spider.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative hrefs and for the same-domain filter.
	baseURL *url.URL
}

// ParseResult contains the information extracted from one HTML page.
type ParseResult struct {
	// Title is the page title from the first <title> tag.
	// Empty if the document has no title.
	Title string

	// Candidates are the normalized, same-domain, crawlable URLs
	// discovered on the page. Deduplicated and sorted so traversal
	// order is reproducible in tests.
	Candidates []string
}

// NewParser creates a new HTML parser with the given base URL.
// The base URL is used to resolve relative links and defines the domain
// candidates must belong to.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content and extracts the title and link candidates.
//
// Candidate filtering, in order:
//  1. Every anchor href attribute is collected
//  2. Empty hrefs and non-navigational schemes (javascript:, mailto:,
//     tel:, data:) are dropped
//  3. Fragment-bearing hrefs are dropped entirely; an anchor into a page
//     is not a new page
//  4. Relative hrefs are resolved against the base URL
//  5. Off-domain links are dropped
//  6. Survivors are normalized (trailing slash stripped) and deduplicated
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Candidates: make([]string, 0),
	}
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				// First title wins
				if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if candidate, ok := p.resolveCandidate(getAttr(n, "href")); ok && !seen[candidate] {
					seen[candidate] = true
					result.Candidates = append(result.Candidates, candidate)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	sort.Strings(result.Candidates)
	return result, nil
}

// resolveCandidate turns a raw href into a normalized same-domain candidate.
// It returns false for hrefs that must not be crawled.
func (p *Parser) resolveCandidate(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	// Non-navigational schemes
	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return "", false
	}

	// Fragment-bearing links point into a page, not at a new one.
	// This also drops the bare "#" self-reference that would otherwise
	// loop the crawler forever.
	if strings.Contains(href, "#") {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := p.baseURL.ResolveReference(u)

	// Only crawl http(s)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}

	// Same-domain filter: the crawl never leaves its host
	if !strings.EqualFold(resolved.Host, p.baseURL.Host) {
		return "", false
	}

	return Normalize(resolved.String()), true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
