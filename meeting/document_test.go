package meeting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentKeepsVerbatimPayload(t *testing.T) {
	input := `{"id":"doc-1","title":"Sync","created_at":"2025-01-15T10:00:00Z",` +
		`"unknown_field":{"nested":true},"transcript":[{"source":"microphone","text":"hi"}]}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(input), &doc))

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "Sync", doc.Title)
	require.Len(t, doc.Transcript, 1)
	assert.Equal(t, "hi", doc.Transcript[0].Text)

	assert.JSONEq(t, input, string(doc.RawPayload()), "unknown fields must survive")

	out, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestDocumentToleratesMalformedTranscript(t *testing.T) {
	input := `{"id":"doc-2","transcript":{"not":"an array"}}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(input), &doc))
	assert.Nil(t, doc.Transcript, "unparseable transcript is treated as absent")
	assert.JSONEq(t, `{"not":"an array"}`, string(doc.RawTranscript()), "raw form is still mirrored")
}

func TestDocumentRawAccessors(t *testing.T) {
	input := `{"id":"doc-3","chapters":[{"title":"Intro","transcript":[{"speaker":"Alice","text":"hi"}]}]}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(input), &doc))

	assert.Nil(t, doc.RawTranscript())
	assert.NotNil(t, doc.RawChapters())
	require.Len(t, doc.Chapters, 1)
	assert.Equal(t, "Intro", doc.Chapters[0].Title)
}

func TestDocumentConstructedInMemory(t *testing.T) {
	doc := Document{
		ID:        "mem-1",
		Title:     "Fixture",
		CreatedAt: "2025-01-01T00:00:00Z",
	}

	var back Document
	require.NoError(t, json.Unmarshal(doc.RawPayload(), &back))
	assert.Equal(t, doc.ID, back.ID)
	assert.Equal(t, doc.Title, back.Title)
}
