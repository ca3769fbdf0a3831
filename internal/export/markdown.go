package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/yomogi/sitemapper/internal/model"
)

// MarkdownWriter outputs crawl results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writePages(md, result)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.CrawlResult) {
	md.H1("Site Map Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", "`" + result.Domain + "`"},
			{"Crawl Date", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Visited", strconv.Itoa(result.PagesVisited())},
			{"Pages Skipped", strconv.Itoa(result.PagesSkipped)},
			{"Elapsed", result.Elapsed.Round(time.Millisecond).String()},
			{"Status", w.statusText(result)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on the crawl outcome.
func (w *MarkdownWriter) statusText(result *model.CrawlResult) string {
	if result.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	return "✅ Complete"
}

// writeSummary writes the dead-link summary alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.CrawlResult) {
	dead := result.DeadLinks()
	switch {
	case len(dead) > 0:
		md.Warningf("%d dead link(s) detected.", len(dead))
	case result.PagesSkipped > 0:
		md.Note(fmt.Sprintf("%d page(s) skipped after transport failures.", result.PagesSkipped))
	default:
		md.Tip("All discovered pages responded.")
	}
	md.PlainText("")
}

// writePages writes the per-page record table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Pages")
	md.PlainText("")

	if len(result.Records) == 0 {
		md.PlainText("No pages were recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, []string{
			rec.URL,
			rec.Title,
			strconv.Itoa(rec.StatusCode),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}
