package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asenkovskiy/skill-granola/pkg/diag"
	"github.com/asenkovskiy/skill-granola/store"
)

func TestShowNotFound(t *testing.T) {
	deps, _ := testDeps(t, syncFixture())

	err := runShow(deps, "no-such-meeting")
	require.Error(t, err)
	d, ok := diag.From(err)
	require.True(t, ok)
	assert.Equal(t, diag.KindNotFound, d.Kind)
}

func TestShowResolvesByIDPrefix(t *testing.T) {
	fetcher := syncFixture()
	deps, _ := testDeps(t, fetcher)
	require.NoError(t, runSync(context.Background(), deps))

	resetFlags()
	assert.NoError(t, runShow(deps, "doc-1"))
}

func TestGetCopiesLocalMeeting(t *testing.T) {
	fetcher := syncFixture()
	deps, _ := testDeps(t, fetcher)
	require.NoError(t, runSync(context.Background(), deps))

	resetFlags()
	getOutputDir = filepath.Join(t.TempDir(), "export")
	callsBefore := fetcher.documentCalls

	require.NoError(t, runGet(context.Background(), deps, []string{"doc-1"}))

	_, err := os.Stat(filepath.Join(getOutputDir, "2025-01-15_Team-Sync", store.TranscriptMDFile))
	assert.NoError(t, err)
	assert.Equal(t, callsBefore, fetcher.documentCalls, "local copies never hit the API")
}

func TestGetFetchesUnknownMeetingRemotely(t *testing.T) {
	fetcher := syncFixture()
	deps, _ := testDeps(t, fetcher)
	getOutputDir = filepath.Join(t.TempDir(), "export")

	require.NoError(t, runGet(context.Background(), deps, []string{"doc-1"}))

	_, err := os.Stat(filepath.Join(getOutputDir, "2025-01-15_Team-Sync", store.MetadataFile))
	assert.NoError(t, err)
	assert.Equal(t, 1, fetcher.documentCalls)
}

func TestGetUnknownIdentifierFails(t *testing.T) {
	fetcher := syncFixture()
	deps, _ := testDeps(t, fetcher)
	getOutputDir = filepath.Join(t.TempDir(), "export")

	err := runGet(context.Background(), deps, []string{"nope"})
	require.Error(t, err)
	d, ok := diag.From(err)
	require.True(t, ok)
	assert.Equal(t, diag.KindNotFound, d.Kind)
}
