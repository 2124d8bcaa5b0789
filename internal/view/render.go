package view

import "github.com/mmynk/mathnote/internal/models"

// UntitledNote is shown in place of an empty note title.
const UntitledNote = "Untitled Note"

// PreviewLength is the number of runes of content shown under a note title.
const PreviewLength = 50

// GroupItem is one row of the group sidebar.
type GroupItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NoteCount int    `json:"note_count"`
	Active    bool   `json:"active"`
}

// NoteItem is one row of the note list.
type NoteItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	Preview   string `json:"preview"`
	Active    bool   `json:"active"`
}

// Screen is everything the UI needs to draw one frame.
type Screen struct {
	Selection Selection   `json:"selection"`
	Groups    []GroupItem `json:"groups"`

	// ActiveGroup is nil when no group is selected.
	ActiveGroup *GroupItem `json:"active_group,omitempty"`

	// Notes are the active group's notes after applying Query.
	Notes []NoteItem `json:"notes"`
	Query string     `json:"query,omitempty"`

	// ActiveNote is nil when no note is selected.
	ActiveNote *models.Note `json:"active_note,omitempty"`
}

// Render builds the Screen for doc. The selection is resolved against doc
// first, so stale ids render as "nothing selected".
func Render(doc models.DataModel, sel Selection, query string) Screen {
	sel = sel.Resolve(doc)

	screen := Screen{
		Selection: sel,
		Groups:    make([]GroupItem, 0, len(doc.Groups)),
		Notes:     []NoteItem{},
		Query:     query,
	}

	for _, g := range doc.Groups {
		item := GroupItem{
			ID:        g.ID,
			Name:      g.Name,
			NoteCount: len(g.Notes),
			Active:    g.ID == sel.GroupID,
		}
		screen.Groups = append(screen.Groups, item)
		if item.Active {
			active := item
			screen.ActiveGroup = &active
		}
	}

	group, ok := doc.FindGroup(sel.GroupID)
	if !ok {
		return screen
	}

	for _, n := range FilterNotes(group.Notes, query) {
		title := n.Title
		if title == "" {
			title = UntitledNote
		}
		screen.Notes = append(screen.Notes, NoteItem{
			ID:        n.ID,
			Title:     title,
			Timestamp: n.Timestamp,
			Preview:   Preview(n.Content),
			Active:    n.ID == sel.NoteID,
		})
	}

	if i := group.NoteIndex(sel.NoteID); i >= 0 {
		note := group.Notes[i]
		screen.ActiveNote = &note
	}

	return screen
}

// Preview returns the first PreviewLength runes of content, followed by
// "..." when anything was cut.
func Preview(content string) string {
	runes := 0
	for i := range content {
		if runes == PreviewLength {
			return content[:i] + "..."
		}
		runes++
	}
	return content
}
