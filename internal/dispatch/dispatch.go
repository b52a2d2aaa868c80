// Package dispatch assigns enumerated paths to workers and forwards
// their results to a sink, choosing between an inline single-file fast
// path and a pooled parallel fan-out the same way the wave executor this
// package is adapted from chooses between sequential and concurrent task
// execution: a worker pool and channel are only paid for when there is
// more than one unit of work.
package dispatch

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/reader"
	"github.com/xerg-dev/xerg/internal/scanner"
	"github.com/xerg-dev/xerg/internal/xerrors"
)

// Sink receives every OutputMessage the dispatcher produces, in the
// per-file burst order described by the result channel's contract. It is
// called exactly once with engine.Done() after the last burst.
type Sink func(engine.OutputMessage)

// Run dispatches paths according to cfg and pattern, delivering messages
// to sink. out is used only in xtreme mode, where matching lines are
// written directly rather than buffered through sink.
//
// Implementers MUST NOT unify the single-file and parallel code paths:
// routing one tiny file through a pool measurably doubles its latency,
// which is the entire reason the fast path exists.
func Run(cfg *engine.Config, pattern *engine.Pattern, paths []string, out io.Writer, sink Sink) {
	if len(paths) == 1 {
		runInline(cfg, pattern, paths[0], out, sink)
		sink(engine.Done())
		return
	}
	runParallel(cfg, pattern, paths, out, sink)
	sink(engine.Done())
}

// runInline processes the single path on the calling goroutine. No pool,
// no channel: sink is invoked directly from here, so the caller's
// collector effectively runs on the same thread as the worker.
func runInline(cfg *engine.Config, pattern *engine.Pattern, path string, out io.Writer, sink Sink) {
	burst, err := processFile(cfg, pattern, path, true, out)
	if err != nil {
		sink(engine.ErrorMsg(path, err.Error()))
		return
	}
	for _, msg := range burst {
		sink(msg)
	}
}

// runParallel creates a fixed-size pool of max(1, cores-1) workers and an
// unbuffered results channel, submits each path as an independent task, and
// drains the channel in completion order until every task has finished.
func runParallel(cfg *engine.Config, pattern *engine.Pattern, paths []string, out io.Writer, sink Sink) {
	poolSize := runtime.NumCPU() - 1
	if poolSize < 1 {
		poolSize = 1
	}

	jobs := make(chan string)
	results := make(chan engine.OutputMessage)

	var workers sync.WaitGroup
	for i := 0; i < poolSize; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for path := range jobs {
				burst, err := processFile(cfg, pattern, path, false, out)
				if err != nil {
					results <- engine.ErrorMsg(path, err.Error())
					continue
				}
				for _, msg := range burst {
					results <- msg
				}
			}
		}()
	}

	go func() {
		for _, p := range paths {
			jobs <- p
		}
		close(jobs)
		workers.Wait()
		close(results)
	}()

	for msg := range results {
		sink(msg)
	}
}

// processFile reads, scans, and (outside xtreme mode) buffers a single
// file's burst: an optional Header, one Line per match, and an optional
// FileStats. In xtreme mode it writes matching lines directly to out and
// returns only the FileStats/Error tail of the burst.
func processFile(cfg *engine.Config, pattern *engine.Pattern, path string, isSingleFileWorkload bool, out io.Writer) ([]engine.OutputMessage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, xerrors.NewFileError(path, "open", err)
	}

	src, _, err := reader.Open(path, info.Size(), isSingleFileWorkload)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	color := cfg.Color
	if cfg.Xtreme {
		// xtreme output is raw path:line:content; styled_line must equal
		// original_line regardless of --color.
		color = engine.ColorNone
	}

	records, counters, err := scanner.Scan(src, pattern, color)
	if err != nil {
		return nil, err
	}

	if cfg.Xtreme {
		for _, rec := range records {
			writeXtremeLine(out, path, rec)
		}
		if cfg.Stats {
			return []engine.OutputMessage{engine.FileStats(path, counters.LinesRead, counters.Matches, counters.SkippedLines)}, nil
		}
		return nil, nil
	}

	var burst []engine.OutputMessage
	if len(records) > 0 {
		burst = append(burst, engine.Header(path))
		for _, rec := range records {
			burst = append(burst, engine.Line(path, rec.LineIndex, rec.StyledLine))
		}
	}
	if cfg.Stats {
		// FileStats is emitted for every enumerated file when stats is
		// on, matching "every enumerated path contributes exactly one
		// of: a burst ending in FileStats, an Error, or a silent skip".
		burst = append(burst, engine.FileStats(path, counters.LinesRead, counters.Matches, counters.SkippedLines))
	}
	return burst, nil
}

var xtremeMu sync.Mutex

// writeXtremeLine formats and writes a single "path:line:content" line,
// serialized with a mutex so concurrent workers never interleave partial
// lines on the shared writer.
func writeXtremeLine(out io.Writer, path string, rec engine.MatchRecord) {
	xtremeMu.Lock()
	defer xtremeMu.Unlock()
	fmt.Fprintf(out, "%s:%d:%s\n", path, rec.LineIndex, rec.StyledLine)
}
