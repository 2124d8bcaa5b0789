package view

import (
	"strings"

	"github.com/mmynk/mathnote/internal/models"
)

// FilterNotes returns the notes whose title or content contains query,
// ignoring case. An empty query matches everything. Order is preserved.
func FilterNotes(notes []models.Note, query string) []models.Note {
	if query == "" {
		return notes
	}

	q := strings.ToLower(query)
	var matched []models.Note
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q) {
			matched = append(matched, n)
		}
	}
	return matched
}
