// Package meeting defines the meeting document model shared by the API
// client and the local store, plus the pure transforms over it: people
// extraction, transcript rendering, date parsing and metadata filtering.
package meeting

import (
	"bytes"
	"encoding/json"
)

// Segment is one utterance of a transcript. Exactly one attribution
// mechanism is present per segment: live-capture segments carry a Source
// ("microphone" or "system"), chapter-export segments carry a Speaker name.
type Segment struct {
	Speaker string `json:"speaker,omitempty"`
	Source  string `json:"source,omitempty"`
	Text    string `json:"text"`
}

// Chapter is a titled grouping of segments used by the export transcript
// shape.
type Chapter struct {
	Title    string    `json:"title,omitempty"`
	Segments []Segment `json:"transcript,omitempty"`
}

// Document is one meeting record as delivered by the API. The original
// payload is kept verbatim alongside the parsed fields so the store can
// mirror raw JSON to disk without re-encoding losses.
type Document struct {
	ID            string
	Title         string
	CreatedAt     string
	UpdatedAt     string
	People        *People
	Transcript    []Segment
	Chapters      []Chapter
	NotesMarkdown string
	NotesPlain    string
	CalendarEvent json.RawMessage

	raw           json.RawMessage
	rawTranscript json.RawMessage
	rawChapters   json.RawMessage
}

// documentWire mirrors the API field names.
type documentWire struct {
	ID            string          `json:"id"`
	Title         string          `json:"title,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
	People        *People         `json:"people,omitempty"`
	Transcript    json.RawMessage `json:"transcript,omitempty"`
	Chapters      json.RawMessage `json:"chapters,omitempty"`
	NotesMarkdown string          `json:"notes_markdown,omitempty"`
	NotesPlain    string          `json:"notes_plain,omitempty"`
	CalendarEvent json.RawMessage `json:"google_calendar_event,omitempty"`
}

// UnmarshalJSON decodes the known fields and retains the verbatim payload.
// Transcript and chapter arrays that fail to parse are treated as absent
// rather than failing the whole document.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire documentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	d.ID = wire.ID
	d.Title = wire.Title
	d.CreatedAt = wire.CreatedAt
	d.UpdatedAt = wire.UpdatedAt
	d.People = wire.People
	d.NotesMarkdown = wire.NotesMarkdown
	d.NotesPlain = wire.NotesPlain
	d.CalendarEvent = wire.CalendarEvent
	d.raw = append(json.RawMessage(nil), data...)

	if !rawAbsent(wire.Transcript) {
		d.rawTranscript = wire.Transcript
		var segs []Segment
		if json.Unmarshal(wire.Transcript, &segs) == nil {
			d.Transcript = segs
		}
	}
	if !rawAbsent(wire.Chapters) {
		d.rawChapters = wire.Chapters
		var chapters []Chapter
		if json.Unmarshal(wire.Chapters, &chapters) == nil {
			d.Chapters = chapters
		}
	}

	return nil
}

// MarshalJSON emits the verbatim payload when the document came off the
// wire, and reconstructs one otherwise.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.RawPayload(), nil
}

// RawPayload returns the full original API payload, verbatim. Documents
// constructed in memory (tests, fixtures) are re-encoded from their fields.
func (d *Document) RawPayload() json.RawMessage {
	if len(d.raw) > 0 {
		return d.raw
	}

	wire := documentWire{
		ID:            d.ID,
		Title:         d.Title,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		People:        d.People,
		NotesMarkdown: d.NotesMarkdown,
		NotesPlain:    d.NotesPlain,
		CalendarEvent: d.CalendarEvent,
	}
	if len(d.Transcript) > 0 {
		wire.Transcript, _ = json.Marshal(d.Transcript)
	}
	if len(d.Chapters) > 0 {
		wire.Chapters, _ = json.Marshal(d.Chapters)
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

// RawTranscript returns the verbatim transcript array, or nil if absent.
func (d *Document) RawTranscript() json.RawMessage {
	if rawAbsent(d.rawTranscript) {
		return nil
	}
	return d.rawTranscript
}

// RawChapters returns the verbatim chapters array, or nil if absent.
func (d *Document) RawChapters() json.RawMessage {
	if rawAbsent(d.rawChapters) {
		return nil
	}
	return d.rawChapters
}

// FetchedTranscript is a transcript fetched from the live-capture endpoint,
// kept both parsed and verbatim so the raw form can be mirrored to disk.
type FetchedTranscript struct {
	Segments []Segment
	Raw      json.RawMessage
}

// rawAbsent reports whether a raw JSON value is missing or null.
func rawAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
