package export

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yomogi/sitemapper/internal/model"
)

// ErrExportFailed is returned when the export could not be written even
// after the retry. The in-memory records are still valid when this error is
// returned; only the sink failed, so the caller may surface a distinct exit
// code and the user can retry the export alone.
var ErrExportFailed = errors.New("export failed after retry")

// Format identifies an export output format.
type Format string

// Supported export formats.
const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// NewWriter returns a Writer for the format, writing to output.
func NewWriter(format Format, output io.Writer) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewCSVWriter(output)
	}
}

// Filename derives the export file name from the crawled domain and the
// crawl start timestamp, e.g. "sitemap-example.com-20260829-153000.csv".
func Filename(result *model.CrawlResult, format Format) string {
	host := "site"
	if u, err := url.Parse(result.Domain); err == nil && u.Host != "" {
		host = u.Host
	}
	// Ports would put a colon in the file name
	host = strings.ReplaceAll(host, ":", "-")

	return fmt.Sprintf("sitemap-%s-%s.%s",
		host,
		result.StartedAt.Format("20060102-150405"),
		format,
	)
}

// WriteFile writes the crawl result to a file in dir, named per Filename.
// The write is attempted twice before giving up; a transient sink failure
// (full disk cleared, NFS hiccup) should not discard an otherwise complete
// crawl. On exhaustion the returned error wraps ErrExportFailed.
// Returns the path written.
func WriteFile(dir string, result *model.CrawlResult, format Format) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("%w: create export directory %s: %w", ErrExportFailed, dir, err)
	}

	path := filepath.Join(dir, Filename(result, format))

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if lastErr = writeOnce(path, result, format); lastErr == nil {
			return path, nil
		}
	}
	return path, fmt.Errorf("%w: %w", ErrExportFailed, lastErr)
}

// writeOnce performs a single write attempt.
func writeOnce(path string, result *model.CrawlResult, format Format) error {
	f, err := os.Create(path) //nolint:gosec // Export path is derived from user configuration
	if err != nil {
		return err
	}

	if _, err := NewWriter(format, f).Write(result); err != nil {
		_ = f.Close() //nolint:errcheck // Write error takes precedence
		return err
	}
	return f.Close()
}
