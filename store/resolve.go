package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/asenkovskiy/skill-granola/meeting"
)

var (
	hostileChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	dashRuns     = regexp.MustCompile(`[\s-]+`)
)

// maxTitleLen caps the sanitized title portion of a slug.
const maxTitleLen = 50

// SanitizeTitle makes a string safe for use as a folder name: hostile
// characters become dashes, runs of whitespace and dashes collapse, and the
// result is trimmed and capped at maxTitleLen characters. An empty result
// falls back to "Untitled".
func SanitizeTitle(name string) string {
	name = hostileChars.ReplaceAllString(name, "-")
	name = dashRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "- ")
	if runes := []rune(name); len(runes) > maxTitleLen {
		name = strings.TrimRight(string(runes[:maxTitleLen]), "- ")
	}
	if name == "" {
		return "Untitled"
	}
	return name
}

// SlugFor derives the deterministic folder name for a document, like
// "2025-01-15_Team-Standup". The slug is computed once at creation time and
// never renamed afterwards; later title changes only rewrite file contents.
func SlugFor(doc *meeting.Document) string {
	date := "unknown-date"
	if doc.CreatedAt != "" {
		date = doc.CreatedAt
		if len(date) > 10 {
			date = date[:10]
		}
	}
	title := doc.Title
	if title == "" {
		title = "Untitled"
	}
	return date + "_" + SanitizeTitle(title)
}

// candidate is one storage-root child considered during resolution.
type candidate struct {
	name string
	path string
}

// Resolve finds the directory for an identifier, which may be a folder
// name, a full document id, or a prefix of one. Rules are tried in priority
// order across the whole listing, first match wins:
//
//  1. a child directory named exactly identifier (legacy identity scheme)
//  2. a child directory whose name contains identifier
//  3. a child whose persisted metadata id starts with identifier
//  4. a child whose raw document payload id starts with identifier
//     (records saved before metadata existed)
//
// Children that fail to parse at steps 3-4 are skipped, not errors. A
// missing storage root resolves to nothing.
func (s *Store) Resolve(identifier string) (string, bool) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return "", false
	}

	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() {
			candidates = append(candidates, candidate{
				name: e.Name(),
				path: filepath.Join(s.root, e.Name()),
			})
		}
	}

	rules := []func(candidate) bool{
		func(c candidate) bool {
			return c.name == identifier
		},
		func(c candidate) bool {
			return strings.Contains(c.name, identifier)
		},
		func(c candidate) bool {
			meta, ok := s.LoadMetadata(c.path)
			return ok && meta.ID != "" && strings.HasPrefix(meta.ID, identifier)
		},
		func(c candidate) bool {
			id, ok := documentID(c.path)
			return ok && strings.HasPrefix(id, identifier)
		},
	}

	for _, rule := range rules {
		for _, c := range candidates {
			if rule(c) {
				return c.path, true
			}
		}
	}
	return "", false
}

// documentID reads the id out of a directory's raw document payload.
func documentID(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, DocumentFile))
	if err != nil {
		return "", false
	}
	var doc struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", false
	}
	return doc.ID, doc.ID != ""
}
