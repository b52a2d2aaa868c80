// Package orchestrator wires the config loader, pattern compiler,
// enumerator, dispatcher, collector, and the optional ambient features
// (diagnostic logging, history, reports, watch) into the process
// lifecycle described by the command-line entrypoint.
package orchestrator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xerg-dev/xerg/internal/collector"
	"github.com/xerg-dev/xerg/internal/config"
	"github.com/xerg-dev/xerg/internal/dispatch"
	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/enumerator"
	"github.com/xerg-dev/xerg/internal/history"
	"github.com/xerg-dev/xerg/internal/logger"
	"github.com/xerg-dev/xerg/internal/report"
	"github.com/xerg-dev/xerg/internal/watch"
	"github.com/xerg-dev/xerg/internal/xerrors"
)

const (
	ExitMatched    = 0
	ExitNoMatches  = 1
	ExitFatalError = 2
)

// Run executes the full lifecycle and returns the process exit code. It
// never calls os.Exit itself, so the cmd entrypoint stays testable.
func Run(explicitConfigPath string, overrides *engine.Config, stdout, stderr io.Writer, interrupt chan os.Signal) int {
	cfg, err := config.Load(explicitConfigPath, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "xerg: %v\n", err)
		return ExitFatalError
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "xerg: %v\n", err)
		return ExitFatalError
	}

	pattern, err := engine.Compile(cfg.Pattern)
	if err != nil {
		fmt.Fprintf(stderr, "xerg: %v\n", err)
		return ExitFatalError
	}

	if _, err := os.Stat(cfg.Root); err != nil {
		fmt.Fprintf(stderr, "xerg: root: %v\n", err)
		return ExitFatalError
	}

	log := logger.NoOp()
	if cfg.Verbose {
		log = logger.New(stderr, "trace")
	}

	if cfg.Watch {
		return runWatching(cfg, pattern, stdout, stderr, log, interrupt)
	}

	_, matches, err := runOnce(cfg, pattern, stdout, stderr, log, 0)
	if err != nil {
		fmt.Fprintf(stderr, "xerg: %v\n", err)
		return ExitFatalError
	}
	if matches >= 1 {
		return ExitMatched
	}
	return ExitNoMatches
}

func runWatching(cfg *engine.Config, pattern *engine.Pattern, stdout, stderr io.Writer, log *logger.ConsoleLogger, interrupt chan os.Signal) int {
	runner, err := watch.New(cfg.Root, cfg.WatchDebounce, func(n int) error {
		if n > 0 && !cfg.Xtreme {
			fmt.Fprintf(stdout, "--- rerun %d ---\n", n)
		}
		_, _, err := runOnce(cfg, pattern, stdout, stderr, log, n)
		return err
	})
	if err != nil {
		fmt.Fprintf(stderr, "xerg: watch: %v\n", err)
		return ExitFatalError
	}

	if interrupt == nil {
		interrupt = make(chan os.Signal, 1)
	}
	if err := runner.Run(interrupt); err != nil {
		fmt.Fprintf(stderr, "xerg: watch: %v\n", err)
		return ExitFatalError
	}
	return ExitMatched
}

// runOnce performs one enumerate → dispatch → collect → aggregate pass
// (the Orchestrator lifecycle's steps 5-9) and returns the resulting
// stats and the number of matching lines. Ambient-feature failures
// (history, report) are logged and never surface as an error here.
func runOnce(cfg *engine.Config, pattern *engine.Pattern, stdout, stderr io.Writer, log *logger.ConsoleLogger, rerun int) (engine.RunStats, int, error) {
	start := time.Now()

	result, err := enumerator.Enumerate(cfg.Root)
	if err != nil {
		return engine.RunStats{}, 0, err
	}
	paths := enumerator.Sorted(result.Files)

	col := collector.New(stdout, stderr)
	for _, e := range result.Errors {
		col.Handle(engine.ErrorMsg(e.Path, e.Err.Error()))
	}

	var rb *reportBuilder
	if cfg.ReportPath != "" {
		rb = newReportBuilder()
	}

	// Per-file counters are always requested so the match count (and so
	// the exit code) is known; they reach the collector only with --stats.
	dispatchCfg := *cfg
	dispatchCfg.Stats = true
	matches := 0
	sink := func(msg engine.OutputMessage) {
		if msg.Kind == engine.MsgFileStats {
			matches += msg.Matches
			if !cfg.Stats {
				return
			}
		}
		col.Handle(msg)
		if rb != nil {
			rb.observe(msg)
		}
	}

	dispatch.Run(&dispatchCfg, pattern, paths, stdout, sink)

	elapsed := time.Since(start)
	col.Finalize(elapsed)
	stats := col.Stats()

	if cfg.Stats {
		col.PrintSummary()
	}

	if cfg.HistoryPath != "" {
		store := history.Open(cfg.HistoryPath)
		if err := store.Append(start, pattern.Source(), cfg.Root, stats); err != nil {
			log.Warn("history: %v", err)
		}
	}

	if cfg.ReportPath != "" {
		summaryLine := fmt.Sprintf("result: files:%d; lines:%d; matches:%d; skipped:%d; errors:%d; time:%.3fs;\n",
			stats.FilesProcessed, stats.LinesRead, stats.Matches, stats.SkippedLines, stats.Errors, stats.Elapsed.Seconds())
		path := cfg.ReportPath
		if rerun > 0 {
			ext := filepath.Ext(path)
			path = fmt.Sprintf("%s.%d%s", path[:len(path)-len(ext)], rerun, ext)
		}
		if err := report.Write(path, summaryLine, rb.results(), cfg.ReportHTML); err != nil {
			log.Warn("report: %v", xerrors.NewReportError(err))
		}
	}

	return stats, matches, nil
}
