// Package reader implements the per-file strategy selection between
// line-buffered streaming, one-shot bulk reads, and read-only memory
// mapping, matching the thresholds and contracts fixed by the file size
// selector: constant memory for multi-file workloads and large files,
// a zero-copy view for the middle size band, and a single syscall for
// everything else.
package reader

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"syscall"

	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/xerrors"
)

// BulkReadThreshold and MemoryMapCeiling are empirically fixed; do not
// change them without re-benchmarking against concurrent multi-file
// workloads (a higher ceiling thrashes virtual memory under load).
const (
	BulkReadThreshold = 7 * 1024 * 1024   // 7 MiB
	MemoryMapCeiling  = 100 * 1024 * 1024 // 100 MiB
)

// Select picks the FileReaderKind for a file of the given size, given
// whether this run is processing more than one file.
func Select(size int64, isSingleFileWorkload bool) engine.FileReaderKind {
	switch {
	case !isSingleFileWorkload:
		return engine.Streaming
	case size > MemoryMapCeiling:
		return engine.Streaming
	case size > BulkReadThreshold:
		return engine.MemoryMap
	default:
		return engine.BulkRead
	}
}

// Line is one line read from a file, excluding its terminator.
type Line struct {
	Index int
	Bytes []byte
}

// LineSource yields successive lines from an open file. Close releases
// any resources the strategy is holding (a memory mapping, an open file
// descriptor).
type LineSource interface {
	// Next returns the next line, or io.EOF once exhausted.
	Next() (Line, error)
	Close() error
}

// Open chooses a strategy for path given its size and workload
// cardinality, and returns a LineSource ready to be iterated. Callers
// that want a specific strategy regardless of size can use the
// NewStreaming/NewBulkRead/NewMemoryMap constructors directly.
func Open(path string, size int64, isSingleFileWorkload bool) (LineSource, engine.FileReaderKind, error) {
	kind := Select(size, isSingleFileWorkload)
	src, err := openKind(path, kind)
	return src, kind, err
}

func openKind(path string, kind engine.FileReaderKind) (LineSource, error) {
	switch kind {
	case engine.Streaming:
		return NewStreaming(path)
	case engine.MemoryMap:
		return NewMemoryMap(path)
	default:
		return NewBulkRead(path)
	}
}

// streamingSource reads one line at a time through a bufio.Scanner,
// bounding memory to roughly one line's worth regardless of file size.
type streamingSource struct {
	file    *os.File
	scanner *bufio.Scanner
	index   int
}

func NewStreaming(path string) (LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.NewFileError(path, "open", err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &streamingSource{file: f, scanner: scanner}, nil
}

func (s *streamingSource) Next() (Line, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return Line{}, xerrors.NewFileError(s.file.Name(), "read", err)
		}
		return Line{}, io.EOF
	}
	s.index++
	// bufio.Scanner's default split function strips the terminator
	// already, matching the "excludes the line terminator" contract.
	return Line{Index: s.index, Bytes: s.scanner.Bytes()}, nil
}

func (s *streamingSource) Close() error {
	return s.file.Close()
}

// bulkSource reads the entire file in one syscall then splits on
// newlines, trading O(file_size) memory for the lowest per-line
// overhead at small sizes.
type bulkSource struct {
	lines [][]byte
	index int
}

func NewBulkRead(path string) (LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.NewFileError(path, "open", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, xerrors.NewFileError(path, "read", err)
	}

	return &bulkSource{lines: splitLines(data)}, nil
}

func (b *bulkSource) Next() (Line, error) {
	if b.index >= len(b.lines) {
		return Line{}, io.EOF
	}
	b.index++
	return Line{Index: b.index, Bytes: b.lines[b.index-1]}, nil
}

func (b *bulkSource) Close() error { return nil }

// mmapSource maps the file read-only and splits the mapped bytes on
// newlines without copying. The mapping is released on Close.
type mmapSource struct {
	data  []byte
	lines [][]byte
	index int
}

func NewMemoryMap(path string) (LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.NewFileError(path, "open", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, xerrors.NewFileError(path, "mmap", err)
	}
	size := info.Size()
	if size == 0 {
		return &mmapSource{}, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, xerrors.NewFileError(path, "mmap", err)
	}

	return &mmapSource{data: data, lines: splitLines(data)}, nil
}

func (m *mmapSource) Next() (Line, error) {
	if m.index >= len(m.lines) {
		return Line{}, io.EOF
	}
	m.index++
	return Line{Index: m.index, Bytes: m.lines[m.index-1]}, nil
}

func (m *mmapSource) Close() error {
	if m.data == nil {
		return nil
	}
	return syscall.Munmap(m.data)
}

// splitLines splits on "\n" without trimming a trailing "\r", per the
// documented contract: the scanner does not depend on trimming. A final
// line without a trailing newline is still returned.
func splitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	parts := bytes.Split(data, []byte("\n"))
	if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	return parts
}
