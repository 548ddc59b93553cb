package meeting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAbsentPeople(t *testing.T) {
	var p *People
	creator, identifiers := p.Extract()
	if creator != LocalUser {
		t.Errorf("creator = %q, want %q", creator, LocalUser)
	}
	if identifiers != nil {
		t.Errorf("identifiers = %v, want nil", identifiers)
	}
}

func TestExtractRecordShape(t *testing.T) {
	p := NewRecordPeople(
		&Person{Name: "Alice", Email: "alice@example.com"},
		Attendee{Name: "Bob", Email: "bob@example.com"},
		Attendee{Email: "carol@example.com"},
	)

	creator, identifiers := p.Extract()
	assert.Equal(t, "Alice", creator)
	assert.Equal(t, []string{
		"Alice", "alice@example.com",
		"Bob", "bob@example.com",
		"carol@example.com",
	}, identifiers)
}

func TestExtractRecordShapeWithoutCreatorName(t *testing.T) {
	p := NewRecordPeople(nil, Attendee{Name: "Bob"})
	creator, identifiers := p.Extract()
	assert.Equal(t, LocalUser, creator)
	assert.Equal(t, []string{"Bob"}, identifiers)
}

func TestExtractListShape(t *testing.T) {
	p := NewListPeople(
		Person{Name: "Dana", Email: "dana@example.com"},
		Person{Email: "erin@example.com"},
	)

	creator, identifiers := p.Extract()
	assert.Equal(t, LocalUser, creator, "list shape carries no creator marker")
	assert.Equal(t, []string{"Dana", "dana@example.com", "erin@example.com"}, identifiers)
}

func TestDisplayNamesListFallbacks(t *testing.T) {
	p := NewListPeople(
		Person{Name: "Dana"},
		Person{Email: "erin@example.com"},
		Person{},
	)
	assert.Equal(t, []string{"Dana", "erin@example.com", UnknownName}, p.DisplayNames())
}

func TestDisplayNamesRecordShape(t *testing.T) {
	p := NewRecordPeople(
		&Person{Name: "Alice"},
		Attendee{Name: "Bob"},
		Attendee{Email: "nameless@example.com"},
	)
	assert.Equal(t, []string{"Alice", "Bob"}, p.DisplayNames())
}

func TestMatchesParticipant(t *testing.T) {
	p := NewListPeople(Person{Name: "Łukasz Müller", Email: "lukasz@example.com"})

	tests := []struct {
		query string
		want  bool
	}{
		{"müller", true},
		{"MÜLLER", true},
		{"lukasz@", true},
		{"nobody", false},
	}
	for _, tt := range tests {
		if got := p.MatchesParticipant(tt.query); got != tt.want {
			t.Errorf("MatchesParticipant(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestPeopleUnmarshalShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, p *People)
	}{
		{
			name:  "record",
			input: `{"creator":{"name":"Alice"},"attendees":[{"name":"Bob"},"carol@example.com"]}`,
			check: func(t *testing.T, p *People) {
				creator, ids := p.Extract()
				assert.Equal(t, "Alice", creator)
				assert.Contains(t, ids, "carol@example.com", "bare-string attendee becomes a name")
			},
		},
		{
			name:  "list",
			input: `[{"name":"Dana"},{"email":"erin@example.com"}]`,
			check: func(t *testing.T, p *People) {
				assert.Equal(t, []string{"Dana", "erin@example.com"}, p.DisplayNames())
			},
		},
		{
			name:  "null",
			input: `null`,
			check: func(t *testing.T, p *People) {
				creator, ids := p.Extract()
				assert.Equal(t, LocalUser, creator)
				assert.Empty(t, ids)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p People
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			tt.check(t, &p)
		})
	}
}

func TestPeopleMarshalIsVerbatim(t *testing.T) {
	input := `{"creator":{"name":"Alice","role":"organizer"},"attendees":[]}`

	var p People
	require.NoError(t, json.Unmarshal([]byte(input), &p))

	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out), "unknown keys must survive the round trip")
}
