package models

// Group is a user-named notebook.
// New notes are prepended, so Notes is ordered newest first unless the
// document was loaded with a different order.
type Group struct {
	// ID is the unique identifier for the group ("g-" prefix).
	// Never reused, even after the group is deleted.
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Linear Algebra").
	Name string `json:"name"`

	// Notes is the ordered list of notes in this group.
	Notes []Note `json:"notes"`
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	notes := make([]Note, len(g.Notes))
	copy(notes, g.Notes)
	g.Notes = notes
	return g
}

// NoteIndex returns the position of the note with the given ID, or -1.
func (g Group) NoteIndex(noteID string) int {
	for i := range g.Notes {
		if g.Notes[i].ID == noteID {
			return i
		}
	}
	return -1
}
