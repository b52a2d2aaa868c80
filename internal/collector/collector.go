// Package collector implements the single consumer of the dispatcher's
// message stream: it prints matches grouped by file, in file-completion
// order, and hands every FileStats/Error message to a stats.Aggregator.
package collector

import (
	"fmt"
	"io"
	"time"

	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/stats"
)

// Collector is the sole writer to stdout/diagnostics in non-xtreme mode.
// It owns no counters itself; folding is delegated to its Aggregator so
// the aggregation logic stays pure and independently testable.
type Collector struct {
	stdout io.Writer
	stderr io.Writer
	agg    *stats.Aggregator
}

// New returns a Collector writing matches to stdout and per-path errors
// to stderr.
func New(stdout, stderr io.Writer) *Collector {
	return &Collector{stdout: stdout, stderr: stderr, agg: stats.New()}
}

// Handle processes one message. It is meant to be passed as a
// dispatch.Sink.
func (c *Collector) Handle(msg engine.OutputMessage) {
	switch msg.Kind {
	case engine.MsgHeader:
		fmt.Fprintf(c.stdout, "--- %s ---\n", msg.Path)
	case engine.MsgLine:
		fmt.Fprintf(c.stdout, "%4d:  %s\n", msg.LineIndex, msg.StyledLine)
	case engine.MsgError:
		fmt.Fprintf(c.stderr, "%s: %s\n", msg.Path, msg.ErrMessage)
	case engine.MsgFileStats:
		fmt.Fprintf(c.stdout, "  lines: %d, matches: %d, skipped: %d\n", msg.LinesRead, msg.Matches, msg.SkippedLines)
	case engine.MsgDone:
		// terminal sentinel; nothing to print
	}
	c.agg.Fold(msg)
}

// Stats returns the totals accumulated so far. Safe to call only after
// the Done message has been observed by the caller, since the Collector
// itself is not safe for concurrent use (it is the single consumer by
// contract).
func (c *Collector) Stats() engine.RunStats {
	return c.agg.Snapshot()
}

// Finalize stamps the wall-clock elapsed time onto the aggregator.
func (c *Collector) Finalize(elapsed time.Duration) {
	c.agg.SetElapsed(elapsed)
}

// PrintSummary writes the structured "result: …;" line. Field order and
// the trailing semicolon are part of the external contract and must not
// change.
func (c *Collector) PrintSummary() {
	s := c.agg.Snapshot()
	fmt.Fprintf(c.stdout, "result: files:%d; lines:%d; matches:%d; skipped:%d; errors:%d; time:%.3fs;\n",
		s.FilesProcessed, s.LinesRead, s.Matches, s.SkippedLines, s.Errors, s.Elapsed.Seconds())
}
