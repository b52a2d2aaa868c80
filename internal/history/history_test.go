package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xerg-dev/xerg/internal/engine"
)

func TestStore_AppendAndRecent(t *testing.T) {
	tmpDir := t.TempDir()
	s := Open(filepath.Join(tmpDir, "history.db"))

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stats := engine.RunStats{FilesProcessed: 4, LinesRead: 100, Matches: 7, SkippedLines: 1, Errors: 0, Elapsed: 250 * time.Millisecond}

	require.NoError(t, s.Append(start, "TODO", "/src", stats))

	records, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "TODO", r.Pattern)
	assert.Equal(t, "/src", r.Root)
	assert.Equal(t, 7, r.Stats.Matches)
	assert.Equal(t, 4, r.Stats.FilesProcessed)
	assert.True(t, r.StartedAt.Equal(start), "StartedAt = %v, want %v", r.StartedAt, start)
	assert.NotEmpty(t, r.ID)
}

func TestStore_RecentRespectsLimit(t *testing.T) {
	tmpDir := t.TempDir()
	s := Open(filepath.Join(tmpDir, "history.db"))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := s.Append(base.Add(time.Duration(i)*time.Minute), "p", "/r", engine.RunStats{})
		require.NoError(t, err)
	}

	records, err := s.Recent(3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].StartedAt.After(records[1].StartedAt), "expected newest-first ordering")
}

func TestStore_RecentOnEmptyDB(t *testing.T) {
	tmpDir := t.TempDir()
	s := Open(filepath.Join(tmpDir, "history.db"))

	records, err := s.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
