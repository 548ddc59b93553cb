package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Match is one matching line in a rendered transcript.
type Match struct {
	// Line is the 1-based line number.
	Line int `json:"line" yaml:"line"`
	// Text is the trimmed matching line.
	Text string `json:"text" yaml:"text"`
	// Context is the joined block of surrounding lines, present only when
	// context was requested.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// SearchResult groups the matches found in one meeting's transcript.
type SearchResult struct {
	ID      string  `json:"id" yaml:"id"`
	Title   string  `json:"title" yaml:"title"`
	Date    string  `json:"date" yaml:"date"`
	Matches []Match `json:"matches" yaml:"matches"`
}

// SearchTranscripts scans every rendered transcript for a case-insensitive
// regular expression. Directories without a rendered transcript, or with no
// matching line, are omitted. contextLines > 0 attaches that many lines of
// surrounding context to each match, clamped to the file bounds.
func (s *Store) SearchTranscripts(pattern string, contextLines int) ([]SearchResult, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, nil
	}

	var results []SearchResult
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, e.Name())
		data, err := os.ReadFile(filepath.Join(dir, TranscriptMDFile))
		if err != nil {
			continue
		}

		lines := strings.Split(string(data), "\n")
		var matches []Match
		for i, line := range lines {
			if !re.MatchString(line) {
				continue
			}
			m := Match{Line: i + 1, Text: strings.TrimSpace(line)}
			if contextLines > 0 {
				start := max(0, i-contextLines)
				end := min(len(lines), i+contextLines+1)
				m.Context = strings.Join(lines[start:end], "\n")
			}
			matches = append(matches, m)
		}
		if len(matches) == 0 {
			continue
		}

		result := SearchResult{ID: e.Name(), Title: "Untitled", Matches: matches}
		if meta, ok := s.LoadMetadata(dir); ok {
			if meta.Title != "" {
				result.Title = meta.Title
			}
			result.Date = meta.Date()
		}
		results = append(results, result)
	}
	return results, nil
}
