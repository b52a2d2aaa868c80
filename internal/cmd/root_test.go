package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	_ = cmd.Execute()

	output := buf.String()
	if !strings.Contains(output, "xerg") {
		t.Errorf("help text should mention xerg, got: %s", output)
	}
	if !strings.Contains(output, "--watch") {
		t.Errorf("help text should list --watch, got: %s", output)
	}
}

func TestRootCommand_MatchExitsZero(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("needle here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"needle", tmpDir})

	err := cmd.Execute()
	if ExitCode(err) != 0 {
		t.Errorf("ExitCode() = %d, want 0; output=%s", ExitCode(err), buf.String())
	}
	if !strings.Contains(buf.String(), "needle") {
		t.Errorf("expected match output, got %q", buf.String())
	}
}

func TestRootCommand_NoMatchExitsOne(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"absentpattern", tmpDir})

	err := cmd.Execute()
	if ExitCode(err) != 1 {
		t.Errorf("ExitCode() = %d, want 1", ExitCode(err))
	}
}

func TestRootCommand_InvalidColorExitsFatal(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--color", "mauve", "needle", tmpDir})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid color")
	}
}

func TestHistoryCommand_Registered(t *testing.T) {
	cmd := NewRootCommand()
	found := false
	for _, c := range cmd.Commands() {
		if c.Name() == "history" {
			found = true
		}
	}
	if !found {
		t.Error("expected history subcommand to be registered")
	}
}
