// Package report renders a completed search as a Markdown document, with
// optional HTML conversion via goldmark.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/xerg-dev/xerg/internal/engine"
)

// FileResult groups one file's matched lines for the report, in the
// order the collector received them.
type FileResult struct {
	Path  string
	Lines []engine.MatchRecord
}

// Render builds the Markdown report body: a heading, the summary line as
// a fenced code block, and one "### <path>" section per file with its
// matched lines as a list.
func Render(summaryLine string, results []FileResult) string {
	var buf strings.Builder
	buf.WriteString("# xerg report\n\n")
	buf.WriteString("```\n")
	buf.WriteString(summaryLine)
	buf.WriteString("```\n")

	sorted := make([]FileResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	for _, r := range sorted {
		fmt.Fprintf(&buf, "\n### %s\n\n", r.Path)
		for _, line := range r.Lines {
			fmt.Fprintf(&buf, "- line %d: `%s`\n", line.LineIndex, line.OriginalLine)
		}
	}

	return buf.String()
}

// Write renders the report to path. When htmlAlso is set, the Markdown
// is additionally converted to HTML with goldmark and written to path
// with its ".md" suffix replaced by ".html". A render error here is
// always non-fatal to the caller's run.
func Write(path string, summaryLine string, results []FileResult, htmlAlso bool) error {
	md := Render(summaryLine, results)

	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	if !htmlAlso {
		return nil
	}

	var htmlBuf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &htmlBuf); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}

	htmlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
	if err := os.WriteFile(htmlPath, htmlBuf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	return nil
}
