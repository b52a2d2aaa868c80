package enumerator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnumerate_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.txt")
	if err := os.WriteFile(file, []byte("hi"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result, err := Enumerate(file)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(result.Files))
	}
	if !filepath.IsAbs(result.Files[0]) {
		t.Errorf("Enumerate() returned relative path: %s", result.Files[0])
	}
}

func TestEnumerate_SkipsHidden(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		"a.go",
		"b.go",
		".hidden.go",
		".git/config",
		"sub/c.go",
		"sub/.hiddendir/d.go",
	}
	for _, f := range files {
		path := filepath.Join(tmpDir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	result, err := Enumerate(tmpDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	gotNames := make(map[string]bool)
	for _, p := range result.Files {
		gotNames[filepath.Base(p)] = true
	}

	want := []string{"a.go", "b.go", "c.go"}
	for _, w := range want {
		if !gotNames[w] {
			t.Errorf("Enumerate() missing expected file %q", w)
		}
	}

	excluded := []string{".hidden.go", "config", "d.go"}
	for _, e := range excluded {
		if gotNames[e] {
			t.Errorf("Enumerate() unexpectedly included hidden-tree file %q", e)
		}
	}
}

func TestEnumerate_EmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := Enumerate(tmpDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	if len(result.Files) != 0 {
		t.Errorf("Enumerate() on empty dir returned %d files, want 0", len(result.Files))
	}
	if len(result.Errors) != 0 {
		t.Errorf("Enumerate() on empty dir returned %d errors, want 0", len(result.Errors))
	}
}

func TestEnumerate_FollowsSymlinkedDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	real := filepath.Join(tmpDir, "real")
	if err := os.MkdirAll(real, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(real, "inside.go"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported on this platform: %v", err)
	}

	result, err := Enumerate(tmpDir)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	found := false
	for _, p := range result.Files {
		if filepath.Base(p) == "inside.go" {
			found = true
		}
	}
	if !found {
		t.Errorf("Enumerate() did not follow symlinked directory %q into %v", link, result.Files)
	}
}

func TestEnumerate_NonexistentRoot(t *testing.T) {
	_, err := Enumerate("/nonexistent/path/xyz")
	if err == nil {
		t.Fatal("Enumerate() expected error for nonexistent root, got nil")
	}
}

func TestSorted(t *testing.T) {
	in := []string{"c", "a", "b"}
	out := Sorted(in)
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("Sorted()[%d] = %s, want %s", i, out[i], w)
		}
	}
	if in[0] != "c" {
		t.Errorf("Sorted() mutated its input")
	}
}
