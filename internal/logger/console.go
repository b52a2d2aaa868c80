// Package logger implements the diagnostic trace logger: leveled,
// timestamped engineering output, independent of the collector's
// match-output stream on stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines to an injected
// writer, filtering anything below its configured level. It is safe for
// concurrent use by multiple workers. Color is applied to the level tag
// when the writer is a TTY and NO_COLOR is unset.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// New creates a ConsoleLogger writing to writer, filtered to logLevel
// (trace/debug/info/warn/error, case-insensitive; empty or unrecognized
// defaults to "info"). If writer is nil, messages are silently discarded.
func New(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY eligible for color output. Any
// *os.File whose fd isatty reports as a terminal qualifies; writers that
// are not *os.File never get color.
func isTerminal(w io.Writer) bool {
	if w == nil || color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// Trace logs at trace level, the most verbose.
func (cl *ConsoleLogger) Trace(format string, args ...any) { cl.logf("TRACE", format, args...) }

// Debug logs at debug level.
func (cl *ConsoleLogger) Debug(format string, args ...any) { cl.logf("DEBUG", format, args...) }

// Info logs at info level.
func (cl *ConsoleLogger) Info(format string, args ...any) { cl.logf("INFO", format, args...) }

// Warn logs at warn level.
func (cl *ConsoleLogger) Warn(format string, args ...any) { cl.logf("WARN", format, args...) }

// Error logs at error level.
func (cl *ConsoleLogger) Error(format string, args ...any) { cl.logf("ERROR", format, args...) }

func (cl *ConsoleLogger) logf(level, format string, args ...any) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	message := fmt.Sprintf(format, args...)
	ts := timestamp()

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}
	cl.writer.Write([]byte(formatted))
}

func coloredLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// NoOp is a ConsoleLogger that discards everything; used when --verbose
// is not set so the orchestrator always has a non-nil logger to call.
func NoOp() *ConsoleLogger {
	return &ConsoleLogger{writer: nil}
}
