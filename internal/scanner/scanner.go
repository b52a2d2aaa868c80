// Package scanner applies a compiled pattern to the lines a reader
// strategy produces, turning each matching line into a styled
// engine.MatchRecord while folding the per-file counters the
// statistics aggregator ultimately sees.
package scanner

import (
	"io"
	"unicode/utf8"

	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/highlight"
	"github.com/xerg-dev/xerg/internal/reader"
)

// Counters are the per-file tallies the scanner accumulates while
// walking a LineSource. They flow to the aggregator via FileStats.
type Counters struct {
	LinesRead    int
	Matches      int
	SkippedLines int
}

// Scan drains src, applying pattern to every line and producing one
// MatchRecord per matching line. A line that fails UTF-8 decoding is
// counted as skipped and dropped before the pattern is ever applied.
func Scan(src reader.LineSource, pattern *engine.Pattern, color engine.Color) ([]engine.MatchRecord, Counters, error) {
	var records []engine.MatchRecord
	var counters Counters

	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, counters, err
		}

		counters.LinesRead++

		if !utf8.Valid(line.Bytes) {
			counters.SkippedLines++
			continue
		}

		spans := pattern.FindAllIndex(line.Bytes)
		if len(spans) == 0 {
			continue
		}

		counters.Matches++

		original := string(line.Bytes)
		styled := highlight.Line(original, spans, color)

		records = append(records, engine.MatchRecord{
			LineIndex:    line.Index,
			OriginalLine: original,
			StyledLine:   styled,
		})
	}

	return records, counters, nil
}
