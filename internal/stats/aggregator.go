// Package stats implements the statistics aggregator: a pure fold over
// FileStats and Error messages into run-wide counters. It performs no
// I/O; the collector owns printing.
package stats

import (
	"time"

	"github.com/xerg-dev/xerg/internal/engine"
)

// Aggregator folds OutputMessages into a RunStats. It has no I/O and is
// not safe for concurrent use — by construction there is exactly one
// consumer of the message stream (the collector), so Fold is always
// called from a single goroutine.
type Aggregator struct {
	stats engine.RunStats
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Fold updates the running totals from msg. Only FileStats and Error
// messages affect the counters; a file that errored before any read
// contributes to Errors, not FilesProcessed.
func (a *Aggregator) Fold(msg engine.OutputMessage) {
	switch msg.Kind {
	case engine.MsgFileStats:
		a.stats.FilesProcessed++
		a.stats.LinesRead += msg.LinesRead
		a.stats.Matches += msg.Matches
		a.stats.SkippedLines += msg.SkippedLines
	case engine.MsgError:
		a.stats.Errors++
	}
}

// Snapshot returns the current totals.
func (a *Aggregator) Snapshot() engine.RunStats {
	return a.stats
}

// SetElapsed stamps the wall-clock duration onto the snapshot the
// orchestrator takes after the run completes.
func (a *Aggregator) SetElapsed(d time.Duration) {
	a.stats.Elapsed = d
}
