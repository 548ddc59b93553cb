package meeting

import "strings"

// OtherSpeaker labels system-audio segments, which capture everyone who is
// not the local user.
const OtherSpeaker = "Other"

// FormatTranscript renders a document as readable markdown with speaker
// attribution.
//
// Two transcript shapes are handled:
//   - flat segment list (fetched, or the document's own transcript): the
//     live-capture endpoint labels audio source rather than identity, so
//     microphone segments bind to the creator and system segments to
//     OtherSpeaker; empty-text segments are dropped.
//   - chapter-grouped (document export): segments already carry resolved
//     speaker names and render as-is, empty text included.
func FormatTranscript(doc *Document, fetched []Segment) string {
	var lines []string

	title := doc.Title
	if title == "" {
		title = "Untitled Meeting"
	}
	lines = append(lines, "# "+title)

	date := "Unknown"
	if doc.CreatedAt != "" {
		date = firstN(doc.CreatedAt, 10)
	}
	lines = append(lines, "\n**Date:** "+date)

	creator, _ := doc.People.Extract()
	if names := doc.People.DisplayNames(); len(names) > 0 {
		lines = append(lines, "**Attendees:** "+strings.Join(names, ", "))
	}

	lines = append(lines, "\n---\n")

	segments := fetched
	if len(segments) == 0 {
		segments = doc.Transcript
	}

	if len(segments) == 0 {
		for _, chapter := range doc.Chapters {
			if chapter.Title != "" {
				lines = append(lines, "\n## "+chapter.Title+"\n")
			}
			for _, seg := range chapter.Segments {
				speaker := seg.Speaker
				if speaker == "" {
					speaker = UnknownName
				}
				lines = append(lines, "**"+speaker+":** "+seg.Text+"\n")
			}
		}
	} else {
		for _, seg := range segments {
			var speaker string
			switch seg.Source {
			case "microphone":
				speaker = creator
			case "system":
				speaker = OtherSpeaker
			default:
				speaker = seg.Speaker
				if speaker == "" {
					speaker = UnknownName
				}
			}
			if seg.Text != "" {
				lines = append(lines, "**"+speaker+":** "+seg.Text+"\n")
			}
		}
	}

	return strings.Join(lines, "\n")
}
