package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asenkovskiy/skill-granola/client"
	"github.com/asenkovskiy/skill-granola/config"
	"github.com/asenkovskiy/skill-granola/credentials"
	"github.com/asenkovskiy/skill-granola/meeting"
	"github.com/asenkovskiy/skill-granola/pkg/diag"
	"github.com/asenkovskiy/skill-granola/pkg/logging"
	"github.com/asenkovskiy/skill-granola/store"
)

// fakeFetcher serves canned documents and transcripts.
type fakeFetcher struct {
	docs        []meeting.Document
	transcripts map[string]client.TranscriptResult
	listErr     error

	documentCalls   int
	transcriptCalls int
}

func (f *fakeFetcher) FetchDocuments(ctx context.Context, limit int) ([]meeting.Document, error) {
	f.documentCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

func (f *fakeFetcher) FetchTranscript(ctx context.Context, documentID string) client.TranscriptResult {
	f.transcriptCalls++
	return f.transcripts[documentID]
}

// testDeps wires a fake fetcher against a temp storage root.
func testDeps(t *testing.T, fetcher *fakeFetcher) (*Deps, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "meetings")
	resetFlags()

	deps := &Deps{
		LoadConfig: func(storageOverride string) *config.Config {
			return &config.Config{
				StorageRoot:  root,
				APIBaseURL:   "http://granola.test/v1",
				AuthFilePath: filepath.Join(t.TempDir(), "supabase.json"),
				OutputFormat: config.OutputText,
				FetchLimit:   100,
			}
		},
		ResolveToken: func(authFile string) (credentials.Token, error) {
			return credentials.Token{Value: "test-token", Source: credentials.SourceEnv}, nil
		},
		NewFetcher: func(baseURL, token string, log logging.Logger) DocumentFetcher {
			return fetcher
		},
	}
	return deps, root
}

// resetFlags clears the package-level flag state between tests.
func resetFlags() {
	storageFlag, outputFlag, quietFlag, debugFlag = "", "", true, false
	syncForce, syncSince, syncLimit = false, "", 0
	listDate, listStart, listEnd, listTitle, listParticipant, listCompact = "", "", "", "", "", false
	showTranscript = false
	searchContext = 0
	getOutputDir = ""
}

func syncFixture() *fakeFetcher {
	return &fakeFetcher{
		docs: []meeting.Document{
			{ID: "doc-1", Title: "Team Sync", CreatedAt: "2025-01-15T10:00:00Z", UpdatedAt: "2025-01-15T11:00:00Z",
				People: meeting.NewRecordPeople(&meeting.Person{Name: "Alice"})},
			{ID: "doc-2", Title: "Budget Review", CreatedAt: "2025-01-10T09:00:00Z", UpdatedAt: "2025-01-10T10:00:00Z"},
		},
		transcripts: map[string]client.TranscriptResult{
			"doc-1": {Transcript: meeting.FetchedTranscript{
				Segments: []meeting.Segment{{Source: "microphone", Text: "hi"}},
				Raw:      []byte(`[{"source":"microphone","text":"hi"}]`),
			}},
			"doc-2": {FetchErr: errors.New("transcript unavailable")},
		},
	}
}

func TestSyncWritesMeetings(t *testing.T) {
	fetcher := syncFixture()
	deps, root := testDeps(t, fetcher)

	require.NoError(t, runSync(context.Background(), deps))

	rendered, err := os.ReadFile(filepath.Join(root, "2025-01-15_Team-Sync", store.TranscriptMDFile))
	require.NoError(t, err)
	assert.Contains(t, string(rendered), "**Alice:** hi")

	// The failed transcript fetch did not abort the sync.
	_, err = os.Stat(filepath.Join(root, "2025-01-10_Budget-Review", store.MetadataFile))
	assert.NoError(t, err)
}

func TestSyncIsIdempotent(t *testing.T) {
	fetcher := syncFixture()
	deps, root := testDeps(t, fetcher)

	require.NoError(t, runSync(context.Background(), deps))
	firstCalls := fetcher.transcriptCalls

	require.NoError(t, runSync(context.Background(), deps))
	assert.Equal(t, firstCalls, fetcher.transcriptCalls,
		"unchanged meetings must not refetch transcripts")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSyncSinceFilter(t *testing.T) {
	fetcher := syncFixture()
	deps, root := testDeps(t, fetcher)
	syncSince = "2025-01-12"

	require.NoError(t, runSync(context.Background(), deps))

	_, err := os.Stat(filepath.Join(root, "2025-01-15_Team-Sync"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "2025-01-10_Budget-Review"))
	assert.True(t, os.IsNotExist(err))
}

func TestSyncAuthFailure(t *testing.T) {
	deps, _ := testDeps(t, syncFixture())
	deps.ResolveToken = func(string) (credentials.Token, error) {
		return credentials.Token{}, credentials.ErrNoToken
	}

	err := runSync(context.Background(), deps)
	require.Error(t, err)
	d, ok := diag.From(err)
	require.True(t, ok)
	assert.Equal(t, diag.KindAuth, d.Kind)
	assert.NotEmpty(t, d.Hint)
}

func TestSyncRemoteFailure(t *testing.T) {
	fetcher := &fakeFetcher{listErr: errors.New("HTTP 500")}
	deps, _ := testDeps(t, fetcher)

	err := runSync(context.Background(), deps)
	require.Error(t, err)
	d, ok := diag.From(err)
	require.True(t, ok)
	assert.Equal(t, diag.KindRemote, d.Kind)
}
