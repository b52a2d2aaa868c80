package reader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/xerg-dev/xerg/internal/engine"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		size       int64
		singleFile bool
		want       engine.FileReaderKind
	}{
		{"multi-file always streams", 10, false, engine.Streaming},
		{"multi-file large always streams", MemoryMapCeiling + 1, false, engine.Streaming},
		{"single tiny file bulk reads", 100, true, engine.BulkRead},
		{"single file at bulk threshold", BulkReadThreshold, true, engine.BulkRead},
		{"single file just over bulk threshold mmaps", BulkReadThreshold + 1, true, engine.MemoryMap},
		{"single file at mmap ceiling mmaps", MemoryMapCeiling, true, engine.MemoryMap},
		{"single file over mmap ceiling streams", MemoryMapCeiling + 1, true, engine.Streaming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.size, tt.singleFile); got != tt.want {
				t.Errorf("Select(%d, %v) = %v, want %v", tt.size, tt.singleFile, got, tt.want)
			}
		})
	}
}

func readAll(t *testing.T, src LineSource) []string {
	t.Helper()
	var out []string
	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		out = append(out, string(line.Bytes))
	}
	return out
}

func TestStreamingAndBulkAgree(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "f.txt")
	content := "line one\nline two\nline three"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	streaming, err := NewStreaming(path)
	if err != nil {
		t.Fatalf("NewStreaming: %v", err)
	}
	defer streaming.Close()
	streamLines := readAll(t, streaming)

	bulk, err := NewBulkRead(path)
	if err != nil {
		t.Fatalf("NewBulkRead: %v", err)
	}
	defer bulk.Close()
	bulkLines := readAll(t, bulk)

	want := []string{"line one", "line two", "line three"}
	for _, got := range [][]string{streamLines, bulkLines} {
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("line %d = %q, want %q", i, got[i], want[i])
			}
		}
	}
}

func TestMemoryMapAgreesWithBulk(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "f.txt")
	content := "alpha\nbeta\r\ngamma\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	mm, err := NewMemoryMap(path)
	if err != nil {
		t.Fatalf("NewMemoryMap: %v", err)
	}
	defer mm.Close()
	mmLines := readAll(t, mm)

	bulk, err := NewBulkRead(path)
	if err != nil {
		t.Fatalf("NewBulkRead: %v", err)
	}
	defer bulk.Close()
	bulkLines := readAll(t, bulk)

	want := []string{"alpha", "beta\r", "gamma"}
	for _, lines := range [][]string{mmLines, bulkLines} {
		if len(lines) != len(want) {
			t.Fatalf("got %v, want %v", lines, want)
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d = %q, want %q (\\r must be preserved)", i, lines[i], want[i])
			}
		}
	}
}

func TestEmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "empty.txt")
	if err := os.WriteFile(path, []byte{}, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, open := range []func(string) (LineSource, error){NewStreaming, NewBulkRead, NewMemoryMap} {
		src, err := open(path)
		if err != nil {
			t.Fatalf("open empty file: %v", err)
		}
		lines := readAll(t, src)
		if len(lines) != 0 {
			t.Errorf("expected 0 lines for empty file, got %v", lines)
		}
		src.Close()
	}
}

func TestNoTrailingNewline(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "f.txt")
	if err := os.WriteFile(path, []byte("only line, no newline"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := NewBulkRead(path)
	if err != nil {
		t.Fatalf("NewBulkRead: %v", err)
	}
	defer src.Close()

	lines := readAll(t, src)
	if len(lines) != 1 || lines[0] != "only line, no newline" {
		t.Errorf("got %v, want single unterminated line", lines)
	}
}

func TestOpenReturnsError(t *testing.T) {
	if _, err := NewStreaming("/nonexistent/path/to/file"); err == nil {
		t.Error("NewStreaming() expected error for missing file")
	}
	if _, err := NewBulkRead("/nonexistent/path/to/file"); err == nil {
		t.Error("NewBulkRead() expected error for missing file")
	}
	if _, err := NewMemoryMap("/nonexistent/path/to/file"); err == nil {
		t.Error("NewMemoryMap() expected error for missing file")
	}
}
