package collector

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xerg-dev/xerg/internal/engine"
)

func TestCollector_HeaderLineFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := New(&stdout, &stderr)

	c.Handle(engine.Header("/abs/path/to/file"))
	c.Handle(engine.Line("/abs/path/to/file", 8, "use colors::Color;"))
	c.Handle(engine.Line("/abs/path/to/file", 9, "use crawler::get_files;"))

	want := "--- /abs/path/to/file ---\n" +
		"   8:  use colors::Color;\n" +
		"   9:  use crawler::get_files;\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestCollector_FileStatsLine(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := New(&stdout, &stderr)
	c.Handle(engine.FileStats("a.txt", 45, 2, 0))

	want := "  lines: 45, matches: 2, skipped: 0\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestCollector_ErrorGoesToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := New(&stdout, &stderr)
	c.Handle(engine.ErrorMsg("secret.txt", "permission denied"))

	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
	want := "secret.txt: permission denied\n"
	if stderr.String() != want {
		t.Errorf("stderr = %q, want %q", stderr.String(), want)
	}
	if c.Stats().Errors != 1 {
		t.Errorf("Errors = %d, want 1", c.Stats().Errors)
	}
}

func TestCollector_PrintSummaryFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := New(&stdout, &stderr)
	c.Handle(engine.FileStats("a.txt", 100, 5, 1))
	c.Finalize(12 * time.Millisecond)
	c.PrintSummary()

	got := stdout.String()
	if !strings.HasSuffix(got, "result: files:1; lines:100; matches:5; skipped:1; errors:0; time:0.012s;\n") {
		t.Errorf("summary = %q", got)
	}
}
