package meeting

import "encoding/json"

// Metadata is the durable per-meeting summary persisted next to the full
// payload. It carries everything listing and filtering need without reading
// full content.
type Metadata struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
	People        *People         `json:"people"`
	CalendarEvent json.RawMessage `json:"calendar_event"`
}

// MetadataFrom builds the persisted summary for a document. The people and
// calendar fields pass through verbatim.
func MetadataFrom(doc *Document) Metadata {
	return Metadata{
		ID:            doc.ID,
		Title:         doc.Title,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		People:        doc.People,
		CalendarEvent: doc.CalendarEvent,
	}
}

// Date returns the meeting's date portion, or an empty string.
func (m *Metadata) Date() string {
	return firstN(m.CreatedAt, 10)
}
