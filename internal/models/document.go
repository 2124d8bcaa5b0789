package models

// DataModel is the root document: every group, in insertion order.
type DataModel struct {
	Groups []Group `json:"groups"`
}

// Clone returns a deep copy of the document.
func (d DataModel) Clone() DataModel {
	groups := make([]Group, len(d.Groups))
	for i, g := range d.Groups {
		groups[i] = g.Clone()
	}
	return DataModel{Groups: groups}
}

// Normalize replaces nil slices with empty ones so the document always
// encodes "groups" and "notes" as arrays.
func (d *DataModel) Normalize() {
	if d.Groups == nil {
		d.Groups = []Group{}
	}
	for i := range d.Groups {
		if d.Groups[i].Notes == nil {
			d.Groups[i].Notes = []Note{}
		}
	}
}

// GroupIndex returns the position of the group with the given ID, or -1.
func (d DataModel) GroupIndex(groupID string) int {
	for i := range d.Groups {
		if d.Groups[i].ID == groupID {
			return i
		}
	}
	return -1
}

// FindGroup returns the group with the given ID.
func (d DataModel) FindGroup(groupID string) (Group, bool) {
	if i := d.GroupIndex(groupID); i >= 0 {
		return d.Groups[i], true
	}
	return Group{}, false
}

// FindNote returns the note with the given ID and the ID of the group that owns it.
func (d DataModel) FindNote(noteID string) (Note, string, bool) {
	for _, g := range d.Groups {
		if i := g.NoteIndex(noteID); i >= 0 {
			return g.Notes[i], g.ID, true
		}
	}
	return Note{}, "", false
}

// NoteCount returns the number of notes across all groups.
func (d DataModel) NoteCount() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Notes)
	}
	return n
}
