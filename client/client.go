// Package client implements the narrow Granola API contract the sync needs:
// listing meeting documents and fetching per-meeting transcripts, both as
// bearer-authenticated JSON POSTs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/asenkovskiy/skill-granola/meeting"
	"github.com/asenkovskiy/skill-granola/pkg/logging"
)

// API endpoints, relative to the base URL.
const (
	documentsEndpoint  = "get-documents"
	transcriptEndpoint = "get-document-transcript"
)

// defaultTimeout bounds a single API round trip.
const defaultTimeout = 60 * time.Second

// errorBodyLimit caps how much of an error response body lands in messages.
const errorBodyLimit = 512

// Client talks to the Granola API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	log     logging.Logger
}

// New creates a client for the given base URL and bearer token.
func New(baseURL, token string, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

// post sends a JSON POST and returns the response body. Non-2xx statuses
// are errors carrying the status code and a truncated body.
func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > errorBodyLimit {
			snippet = snippet[:errorBodyLimit]
		}
		return nil, fmt.Errorf("%s: HTTP %d: %s", endpoint, resp.StatusCode, snippet)
	}
	return data, nil
}

// FetchDocuments lists meeting documents, newest first, up to limit.
func (c *Client) FetchDocuments(ctx context.Context, limit int) ([]meeting.Document, error) {
	data, err := c.post(ctx, documentsEndpoint, map[string]int{"limit": limit})
	if err != nil {
		return nil, err
	}

	var docs []meeting.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decoding documents: %w", err)
	}
	c.log.Debug("documents fetched", logging.F("count", len(docs)))
	return docs, nil
}

// TranscriptResult is the outcome of a transcript fetch. A failed fetch is
// carried in FetchErr rather than propagated, so one meeting's transcript
// outage never aborts a whole sync. The caller can still tell failure apart
// from a genuinely empty transcript.
type TranscriptResult struct {
	Transcript meeting.FetchedTranscript
	FetchErr   error
}

// Failed reports whether the fetch itself failed.
func (r TranscriptResult) Failed() bool {
	return r.FetchErr != nil
}

// FetchTranscript fetches the live-capture transcript segments for one
// document.
func (c *Client) FetchTranscript(ctx context.Context, documentID string) TranscriptResult {
	data, err := c.post(ctx, transcriptEndpoint, map[string]string{"document_id": documentID})
	if err != nil {
		return TranscriptResult{FetchErr: err}
	}

	var segments []meeting.Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return TranscriptResult{FetchErr: fmt.Errorf("decoding transcript: %w", err)}
	}
	return TranscriptResult{Transcript: meeting.FetchedTranscript{
		Segments: segments,
		Raw:      data,
	}}
}
