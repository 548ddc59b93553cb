package meeting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Sentinel names used when a document does not identify people.
const (
	// LocalUser stands in for the meeting creator when the people field is
	// absent or names no creator; live-capture microphone segments are
	// attributed to it.
	LocalUser = "Me"

	// UnknownName is the display fallback for a participant with neither
	// name nor email.
	UnknownName = "Unknown"
)

// Person is a named participant with an optional email.
type Person struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Attendee is a record-shape attendee. The API delivers attendees either as
// {name, email} records or as bare strings; a bare string becomes the Name.
type Attendee struct {
	Name  string
	Email string
}

// UnmarshalJSON accepts both the record and the bare-string encodings.
func (a *Attendee) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		a.Name = s
		a.Email = ""
		return nil
	}

	var p Person
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	a.Name = p.Name
	a.Email = p.Email
	return nil
}

// MarshalJSON encodes the attendee as a record. Only documents constructed
// in memory take this path; wire documents re-emit their verbatim payload.
func (a Attendee) MarshalJSON() ([]byte, error) {
	return json.Marshal(Person{Name: a.Name, Email: a.Email})
}

// peopleShape tags which of the two wire encodings a People value carries.
type peopleShape int

const (
	shapeAbsent peopleShape = iota
	shapeRecord
	shapeList
)

// People is the tagged variant behind a document's people field. The API
// uses two shapes: a record with creator + attendees, or a flat participant
// list. All consumption goes through the extraction methods below.
type People struct {
	Creator   *Person
	Attendees []Attendee
	List      []Person

	shape peopleShape
	raw   json.RawMessage
}

// NewRecordPeople builds a record-shape People value.
func NewRecordPeople(creator *Person, attendees ...Attendee) *People {
	return &People{Creator: creator, Attendees: attendees, shape: shapeRecord}
}

// NewListPeople builds a list-shape People value.
func NewListPeople(people ...Person) *People {
	return &People{List: people, shape: shapeList}
}

// UnmarshalJSON detects the wire shape from the leading token and keeps the
// verbatim encoding for lossless persistence.
func (p *People) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	p.raw = append(json.RawMessage(nil), data...)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		p.shape = shapeAbsent
		return nil
	case trimmed[0] == '{':
		var record struct {
			Creator   *Person    `json:"creator"`
			Attendees []Attendee `json:"attendees"`
		}
		if err := json.Unmarshal(trimmed, &record); err != nil {
			return fmt.Errorf("parsing people record: %w", err)
		}
		p.shape = shapeRecord
		p.Creator = record.Creator
		p.Attendees = record.Attendees
		return nil
	case trimmed[0] == '[':
		var list []Person
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("parsing people list: %w", err)
		}
		p.shape = shapeList
		p.List = list
		return nil
	default:
		return fmt.Errorf("unrecognized people encoding: %s", firstN(string(trimmed), 20))
	}
}

// MarshalJSON re-emits the verbatim wire encoding when present.
func (p *People) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	switch p.shape {
	case shapeRecord:
		return json.Marshal(struct {
			Creator   *Person    `json:"creator,omitempty"`
			Attendees []Attendee `json:"attendees,omitempty"`
		}{p.Creator, p.Attendees})
	case shapeList:
		return json.Marshal(p.List)
	default:
		return []byte("null"), nil
	}
}

// Extract returns the creator's name and every participant identifier
// (names and emails). An absent field yields the LocalUser sentinel and no
// identifiers; the list shape carries no creator marker, so the sentinel
// stays.
func (p *People) Extract() (string, []string) {
	if p == nil || p.shape == shapeAbsent {
		return LocalUser, nil
	}

	creator := LocalUser
	var identifiers []string

	switch p.shape {
	case shapeRecord:
		if p.Creator != nil {
			if p.Creator.Name != "" {
				creator = p.Creator.Name
				identifiers = append(identifiers, p.Creator.Name)
			}
			if p.Creator.Email != "" {
				identifiers = append(identifiers, p.Creator.Email)
			}
		}
		for _, a := range p.Attendees {
			if a.Name != "" {
				identifiers = append(identifiers, a.Name)
			}
			if a.Email != "" {
				identifiers = append(identifiers, a.Email)
			}
		}
	case shapeList:
		for _, person := range p.List {
			if person.Name != "" {
				identifiers = append(identifiers, person.Name)
			}
			if person.Email != "" {
				identifiers = append(identifiers, person.Email)
			}
		}
	}

	return creator, identifiers
}

// DisplayNames returns participant names for transcript headers. Record
// shape lists the creator first; list-shape entries fall back to email, then
// the UnknownName sentinel.
func (p *People) DisplayNames() []string {
	if p == nil || p.shape == shapeAbsent {
		return nil
	}

	var names []string
	switch p.shape {
	case shapeRecord:
		if p.Creator != nil && p.Creator.Name != "" {
			names = append(names, p.Creator.Name)
		}
		for _, a := range p.Attendees {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
	case shapeList:
		for _, person := range p.List {
			switch {
			case person.Name != "":
				names = append(names, person.Name)
			case person.Email != "":
				names = append(names, person.Email)
			default:
				names = append(names, UnknownName)
			}
		}
	}
	return names
}

// MatchesParticipant reports whether any participant identifier contains the
// query, compared under Unicode case folding.
func (p *People) MatchesParticipant(query string) bool {
	_, identifiers := p.Extract()
	fold := cases.Fold()
	needle := fold.String(query)
	for _, id := range identifiers {
		if strings.Contains(fold.String(id), needle) {
			return true
		}
	}
	return false
}

// firstN returns the first n bytes of s, or s if shorter.
func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
