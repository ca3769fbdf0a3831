package crawler

import (
	"sync"

	"github.com/yomogi/sitemapper/internal/model"
)

// Store is the visited set and result accumulator for one crawl.
// It maps normalized URLs to PageRecords, preserving insertion order so the
// export is deterministic, and tracks which URLs have already been claimed
// for fetching.
//
// Design decision: The Store is the single shared mutable resource of a
// crawl, so all methods are guarded by one mutex and Visit performs its
// check-then-insert atomically. A concurrent spider variant can therefore
// never claim the same URL twice.
type Store struct {
	// mutex protects all fields below.
	mutex sync.Mutex

	// visited tracks normalized URLs already claimed for fetching.
	// This includes URLs that later hit a transport error and produced
	// no record; a skipped page is terminal and is not retried.
	visited map[string]bool

	// index maps normalized URL to the record's position in records.
	index map[string]int

	// records holds PageRecords in insertion order.
	records []model.PageRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		visited: make(map[string]bool),
		index:   make(map[string]int),
		records: make([]model.PageRecord, 0),
	}
}

// Visit atomically marks the URL as claimed for fetching.
// It returns true if this caller is the first to claim it, false if the URL
// was already visited. The URL is normalized before the check.
func (s *Store) Visit(rawURL string) bool {
	key := Normalize(rawURL)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.visited[key] {
		return false
	}
	s.visited[key] = true
	return true
}

// Exists reports whether the URL has already been visited or recorded.
func (s *Store) Exists(rawURL string) bool {
	key := Normalize(rawURL)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.visited[key] {
		return true
	}
	_, ok := s.index[key]
	return ok
}

// Add appends a PageRecord for the URL.
// First-writer-wins: if a record already exists for the normalized URL the
// call is a no-op and the first record stays authoritative. Re-discovery of
// an already-visited page through multiple inbound links is the common case,
// not an error.
func (s *Store) Add(rawURL, title string, statusCode int) {
	key := Normalize(rawURL)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.index[key]; ok {
		return
	}

	s.visited[key] = true
	s.index[key] = len(s.records)
	s.records = append(s.records, model.PageRecord{
		URL:        key,
		Title:      title,
		StatusCode: statusCode,
	})
}

// RecordFor returns the record for the URL, if one exists.
func (s *Store) RecordFor(rawURL string) (model.PageRecord, bool) {
	key := Normalize(rawURL)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	i, ok := s.index[key]
	if !ok {
		return model.PageRecord{}, false
	}
	return s.records[i], true
}

// AllRecords returns all records in insertion order.
// The returned slice is a copy; mutating it does not affect the Store.
func (s *Store) AllRecords() []model.PageRecord {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]model.PageRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records in the Store.
func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.records)
}
