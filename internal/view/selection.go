// Package view turns a document snapshot plus the UI's ephemeral selection
// into the three panes the UI draws: groups, the active group's notes, and
// the active note.
//
// Selection is owned by whoever renders, passed in explicitly, and never
// persisted. Nothing here mutates a snapshot.
package view

import "github.com/mmynk/mathnote/internal/models"

// Selection is the active group and note. Empty strings mean nothing selected.
type Selection struct {
	GroupID string `json:"group_id,omitempty"`
	NoteID  string `json:"note_id,omitempty"`
}

// DefaultSelection selects the first group and that group's first note.
// For the seed document this is the sample note.
func DefaultSelection(doc models.DataModel) Selection {
	if len(doc.Groups) == 0 {
		return Selection{}
	}
	sel := Selection{GroupID: doc.Groups[0].ID}
	if notes := doc.Groups[0].Notes; len(notes) > 0 {
		sel.NoteID = notes[0].ID
	}
	return sel
}

// SelectGroup moves to another group. The note selection is always cleared.
func (s Selection) SelectGroup(groupID string) Selection {
	return Selection{GroupID: groupID}
}

// SelectNote selects a note within the current group.
func (s Selection) SelectNote(noteID string) Selection {
	s.NoteID = noteID
	return s
}

// Resolve drops ids that no longer exist in doc, or a note that is not in
// the selected group.
func (s Selection) Resolve(doc models.DataModel) Selection {
	group, ok := doc.FindGroup(s.GroupID)
	if !ok {
		return Selection{}
	}
	if s.NoteID != "" && group.NoteIndex(s.NoteID) < 0 {
		s.NoteID = ""
	}
	return s
}
