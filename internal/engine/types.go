// Package engine holds the data types shared across the search pipeline:
// the compiled pattern, the immutable run configuration, and the message
// types workers exchange with the collector.
package engine

import (
	"regexp"
	"time"

	"github.com/xerg-dev/xerg/internal/xerrors"
)

// Color selects the ANSI styling applied to a match span. ColorNone means
// no markers are inserted regardless of any other setting.
type Color int

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorBold
)

// ParseColor converts a CLI color name into a Color. An empty or
// unrecognized name yields ColorNone and a non-nil error for the latter.
func ParseColor(name string) (Color, error) {
	switch name {
	case "":
		return ColorNone, nil
	case "red":
		return ColorRed, nil
	case "green":
		return ColorGreen, nil
	case "blue":
		return ColorBlue, nil
	case "bold":
		return ColorBold, nil
	default:
		return ColorNone, xerrors.NewConfigError("color", "must be one of red, green, blue, bold", nil)
	}
}

// Config is the immutable value every worker and collector reads from.
// It is built once by the config loader and never mutated afterward.
type Config struct {
	Pattern string
	Root    string
	Color   Color
	Stats   bool
	Xtreme  bool

	// Ambient fields, all optional with defaults that reproduce the core
	// engine's behavior unchanged when left zero-valued.
	Verbose       bool
	HistoryPath   string
	ReportPath    string
	ReportHTML    bool
	Watch         bool
	WatchDebounce time.Duration
}

// FileReaderKind tags which strategy a worker used to read a file.
type FileReaderKind int

const (
	Streaming FileReaderKind = iota
	BulkRead
	MemoryMap
)

func (k FileReaderKind) String() string {
	switch k {
	case Streaming:
		return "streaming"
	case BulkRead:
		return "bulkread"
	case MemoryMap:
		return "mmap"
	default:
		return "unknown"
	}
}

// MatchRecord is one matched line produced by the scanner/highlighter.
type MatchRecord struct {
	LineIndex    int
	OriginalLine string
	StyledLine   string
}

// MessageKind tags an OutputMessage's payload.
type MessageKind int

const (
	MsgHeader MessageKind = iota
	MsgLine
	MsgError
	MsgFileStats
	MsgDone
)

// OutputMessage is the tagged variant workers send to the collector.
// Only the fields relevant to Kind are populated.
type OutputMessage struct {
	Kind MessageKind
	Path string

	// MsgLine
	LineIndex  int
	StyledLine string

	// MsgError
	ErrMessage string

	// MsgFileStats
	LinesRead    int
	Matches      int
	SkippedLines int
}

func Header(path string) OutputMessage {
	return OutputMessage{Kind: MsgHeader, Path: path}
}

func Line(path string, lineIndex int, styled string) OutputMessage {
	return OutputMessage{Kind: MsgLine, Path: path, LineIndex: lineIndex, StyledLine: styled}
}

func ErrorMsg(path, message string) OutputMessage {
	return OutputMessage{Kind: MsgError, Path: path, ErrMessage: message}
}

func FileStats(path string, linesRead, matches, skipped int) OutputMessage {
	return OutputMessage{
		Kind:         MsgFileStats,
		Path:         path,
		LinesRead:    linesRead,
		Matches:      matches,
		SkippedLines: skipped,
	}
}

func Done() OutputMessage {
	return OutputMessage{Kind: MsgDone}
}

// RunStats holds the monotonic counters the collector folds OutputMessages
// into. It has a single writer: the collector goroutine (or, on the
// single-file fast path, the calling goroutine).
type RunStats struct {
	FilesProcessed int
	LinesRead      int
	Matches        int
	SkippedLines   int
	Errors         int
	Elapsed        time.Duration
}

// Pattern wraps a compiled regular expression. It is built once at
// startup and shared read-only by every worker.
type Pattern struct {
	re *regexp.Regexp
	// source is kept for history records and diagnostics; the compiled
	// regexp itself doesn't retain the original string in a usable form.
	source string
}

// Compile compiles src into a Pattern. Compilation failure is a fatal
// ConfigError per the error taxonomy.
func Compile(src string) (*Pattern, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, xerrors.NewConfigError("pattern", "invalid regular expression", err)
	}
	return &Pattern{re: re, source: src}, nil
}

// Source returns the original pattern string.
func (p *Pattern) Source() string { return p.source }

// FindAllIndex returns the non-overlapping match spans in line, including
// zero-length matches, exactly as regexp.FindAllIndex does.
func (p *Pattern) FindAllIndex(line []byte) [][]int {
	return p.re.FindAllIndex(line, -1)
}
