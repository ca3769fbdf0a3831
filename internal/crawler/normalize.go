package crawler

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes a URL string so that equality comparison reflects
// "same page". Two URLs that differ only by a trailing slash or a fragment
// normalize to the same string; without this the crawler could loop forever
// on self-referential anchors.
//
// Normalization is idempotent: Normalize(Normalize(u)) == Normalize(u).
//
// Design decision: We normalize URLs because:
//  1. The same page can have different URL representations
//  2. Fragments (#anchor) don't change content
//  3. "/path" and "/path/" are treated as the same page by all Store
//     lookups and insertions
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		// Unparseable input is used verbatim minus a trailing slash so
		// the idempotence guarantee still holds.
		return strings.TrimSuffix(rawURL, "/")
	}

	// Remove fragment
	u.Fragment = ""

	// Normalize scheme and host to lowercase
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	// Strip a single trailing slash so "/path" and "/path/" collapse.
	// The root path collapses to the bare domain ("https://x.com/" and
	// "https://x.com" are the same page).
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}
