package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTranscript creates a meeting directory with a rendered transcript and
// minimal metadata.
func seedTranscript(t *testing.T, root, name, transcript, metadataJSON string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TranscriptMDFile), []byte(transcript), 0644))
	if metadataJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(metadataJSON), 0644))
	}
}

func TestSearchTranscripts(t *testing.T) {
	root := t.TempDir()
	st := New(root, nil)
	seedTranscript(t, root, "2025-01-15_Team-Sync",
		"# Team Sync\n\n**Alice:** let's review the budget\n\n**Bob:** budget looks fine\n",
		`{"id":"abc","title":"Team Sync","created_at":"2025-01-15T10:00:00Z"}`)
	seedTranscript(t, root, "2025-01-10_Retro",
		"# Retro\n\n**Alice:** nothing relevant here\n", "")

	results, err := st.SearchTranscripts("BUDGET", 0)
	require.NoError(t, err)
	require.Len(t, results, 1, "directories without matches are omitted")

	r := results[0]
	assert.Equal(t, "2025-01-15_Team-Sync", r.ID)
	assert.Equal(t, "Team Sync", r.Title)
	assert.Equal(t, "2025-01-15", r.Date)
	require.Len(t, r.Matches, 2)
	assert.Equal(t, 3, r.Matches[0].Line, "line numbers are 1-based")
	assert.Equal(t, "**Alice:** let's review the budget", r.Matches[0].Text)
	assert.Empty(t, r.Matches[0].Context, "no context unless requested")
}

func TestSearchTranscriptsContextClamped(t *testing.T) {
	root := t.TempDir()
	st := New(root, nil)

	lines := []string{"one", "two", "three", "NEEDLE", "five", "six", "seven"}
	seedTranscript(t, root, "m", strings.Join(lines, "\n"), "")

	results, err := st.SearchTranscripts("needle", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Matches, 1)
	assert.Equal(t, "two\nthree\nNEEDLE\nfive\nsix", results[0].Matches[0].Context)
}

func TestSearchTranscriptsContextClampedAtFileBounds(t *testing.T) {
	root := t.TempDir()
	st := New(root, nil)
	seedTranscript(t, root, "m", "NEEDLE\nsecond", "")

	results, err := st.SearchTranscripts("needle", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "NEEDLE\nsecond", results[0].Matches[0].Context)
}

func TestSearchTranscriptsTitleFallback(t *testing.T) {
	root := t.TempDir()
	st := New(root, nil)
	seedTranscript(t, root, "no-meta", "a NEEDLE line", "")

	results, err := st.SearchTranscripts("needle", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Untitled", results[0].Title)
}

func TestSearchTranscriptsSkipsDirsWithoutTranscript(t *testing.T) {
	root := t.TempDir()
	st := New(root, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bare"), 0755))

	results, err := st.SearchTranscripts("anything", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTranscriptsMissingRoot(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"), nil)
	results, err := st.SearchTranscripts("x", 0)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearchTranscriptsInvalidPattern(t *testing.T) {
	st := New(t.TempDir(), nil)
	_, err := st.SearchTranscripts("(", 0)
	assert.Error(t, err)
}
