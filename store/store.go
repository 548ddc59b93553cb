// Package store persists meeting documents as one human-browsable directory
// per meeting and resolves identifiers back to those directories. It assumes
// a single sequential writer; concurrent invocations against the same root
// are not coordinated.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/asenkovskiy/skill-granola/meeting"
	"github.com/asenkovskiy/skill-granola/pkg/logging"
)

// File names written into each meeting directory.
const (
	MetadataFile     = "metadata.json"
	DocumentFile     = "document.json"
	TranscriptFile   = "transcript.json"
	TranscriptMDFile = "transcript.md"
	NotesFile        = "notes.md"
)

// SaveStatus reports the outcome of a Save call.
type SaveStatus string

const (
	// StatusWritten means the meeting directory was created or overwritten.
	StatusWritten SaveStatus = "written"
	// StatusSkipped means nothing was touched: either the document had no
	// id, or the persisted updated_at matched the incoming one.
	StatusSkipped SaveStatus = "skipped"
)

// Store is the local meeting mirror rooted at a storage directory.
type Store struct {
	root string
	log  logging.Logger
}

// New creates a store over root. The root is not created until the first
// save.
func New(root string, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{root: root, log: log}
}

// Root returns the storage root path.
func (s *Store) Root() string {
	return s.root
}

// NeedsUpdate reports whether a Save for doc would write anything. It lets
// callers avoid the transcript fetch for meetings that will be skipped.
func (s *Store) NeedsUpdate(doc *meeting.Document, force bool) bool {
	if doc.ID == "" {
		return false
	}
	if force {
		return true
	}
	dir, found := s.Resolve(doc.ID)
	if !found {
		return true
	}
	meta, ok := s.LoadMetadata(dir)
	return !ok || meta.UpdatedAt != doc.UpdatedAt
}

// Save persists a document into its meeting directory.
//
// Documents without an id are skipped silently. If a directory for the id
// already exists and the persisted updated_at equals the incoming one, the
// save is a no-op skip unless force is set, touching no file. Otherwise
// the full file set is written: metadata, rendered transcript, raw
// transcript, verbatim document, and notes when present.
func (s *Store) Save(doc *meeting.Document, fetched meeting.FetchedTranscript, force bool) (SaveStatus, error) {
	if doc.ID == "" {
		return StatusSkipped, nil
	}

	dir, found := s.Resolve(doc.ID)
	if found && !force {
		if meta, ok := s.LoadMetadata(dir); ok && meta.UpdatedAt == doc.UpdatedAt {
			return StatusSkipped, nil
		}
	}
	if !found {
		slug := SlugFor(doc)
		dir = filepath.Join(s.root, slug)
		if _, err := os.Stat(dir); err == nil {
			// Slug collision with a different meeting; disambiguate with
			// the id prefix.
			dir = filepath.Join(s.root, slug+"_"+firstN(doc.ID, 8))
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return StatusSkipped, fmt.Errorf("creating meeting directory: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, MetadataFile), meeting.MetadataFrom(doc)); err != nil {
		return StatusSkipped, err
	}

	rendered := meeting.FormatTranscript(doc, fetched.Segments)
	if err := os.WriteFile(filepath.Join(dir, TranscriptMDFile), []byte(rendered), 0644); err != nil {
		return StatusSkipped, fmt.Errorf("writing rendered transcript: %w", err)
	}

	if err := writeRawJSON(filepath.Join(dir, TranscriptFile), rawTranscriptFor(doc, fetched)); err != nil {
		return StatusSkipped, err
	}

	if err := writeRawJSON(filepath.Join(dir, DocumentFile), doc.RawPayload()); err != nil {
		return StatusSkipped, err
	}

	notes := doc.NotesMarkdown
	if notes == "" {
		notes = doc.NotesPlain
	}
	if notes != "" {
		if err := os.WriteFile(filepath.Join(dir, NotesFile), []byte(notes), 0644); err != nil {
			return StatusSkipped, fmt.Errorf("writing notes: %w", err)
		}
	}

	s.log.Debug("meeting saved", logging.F("id", doc.ID), logging.F("dir", dir))
	return StatusWritten, nil
}

// rawTranscriptFor picks the verbatim transcript content to mirror: the
// fetched segments win, then the document's own transcript, then its
// chapters, then an empty array.
func rawTranscriptFor(doc *meeting.Document, fetched meeting.FetchedTranscript) json.RawMessage {
	if len(fetched.Segments) > 0 && len(fetched.Raw) > 0 {
		return fetched.Raw
	}
	if len(doc.Transcript) > 0 {
		if raw := doc.RawTranscript(); raw != nil {
			return raw
		}
		raw, _ := json.Marshal(doc.Transcript)
		return raw
	}
	if len(doc.Chapters) > 0 {
		if raw := doc.RawChapters(); raw != nil {
			return raw
		}
		raw, _ := json.Marshal(doc.Chapters)
		return raw
	}
	return json.RawMessage("[]")
}

// ListAll loads the metadata of every meeting directory, newest first.
// Directories with missing or corrupt metadata are silently excluded.
func (s *Store) ListAll() []meeting.Metadata {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil
	}

	var metas []meeting.Metadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if meta, ok := s.LoadMetadata(filepath.Join(s.root, e.Name())); ok {
			metas = append(metas, *meta)
		}
	}

	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].CreatedAt > metas[j].CreatedAt
	})
	return metas
}

// LoadMetadata parses a meeting directory's metadata file. Any read or
// parse failure yields absence rather than an error.
func (s *Store) LoadMetadata(dir string) (*meeting.Metadata, bool) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, false
	}
	var meta meeting.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, false
	}
	return &meta, true
}

// writeJSON writes v as indented JSON.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeRawJSON re-indents a verbatim payload for readability and writes it.
// Payloads that fail to indent are written as-is.
func writeRawJSON(path string, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// firstN returns the first n bytes of s, or s if shorter.
func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
