package service

import (
	"github.com/mmynk/mathnote/internal/models"
	"github.com/mmynk/mathnote/internal/symbols"
	"github.com/mmynk/mathnote/internal/view"
)

// Mutation responses carry the document revision after the call, so the UI
// can tell whether it needs to re-render, and a Warning when the change was
// applied but could not be saved.

type GetSnapshotRequest struct{}

type GetSnapshotResponse struct {
	Document models.DataModel `json:"document"`
	Revision string           `json:"revision"`
	Dirty    bool             `json:"dirty"`
}

type AddGroupRequest struct {
	Name string `json:"name"`
}

type AddGroupResponse struct {
	Group    models.Group `json:"group"`
	Revision string       `json:"revision"`
	Warning  string       `json:"warning,omitempty"`
}

type AddNoteRequest struct {
	GroupID string `json:"group_id"`
}

type AddNoteResponse struct {
	Note     models.Note `json:"note"`
	Revision string      `json:"revision"`
	Warning  string      `json:"warning,omitempty"`
}

// UpdateNoteRequest replaces only the fields that are present.
type UpdateNoteRequest struct {
	NoteID    string  `json:"note_id"`
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`
}

// UpdateNoteResponse has Found false, and no Note, when the id is unknown.
type UpdateNoteResponse struct {
	Note     *models.Note `json:"note,omitempty"`
	Found    bool         `json:"found"`
	Revision string       `json:"revision"`
	Warning  string       `json:"warning,omitempty"`
}

type RenameGroupRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

type RenameGroupResponse struct {
	Group    models.Group `json:"group"`
	Revision string       `json:"revision"`
	Warning  string       `json:"warning,omitempty"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteNoteRequest struct {
	NoteID string `json:"note_id"`
}

// DeleteResponse answers both delete procedures.
type DeleteResponse struct {
	Revision string `json:"revision"`
	Warning  string `json:"warning,omitempty"`
}

type ListNotesRequest struct {
	GroupID string `json:"group_id"`
	Query   string `json:"query,omitempty"`
}

type ListNotesResponse struct {
	Notes []models.Note `json:"notes"`
}

// RenderRequest carries the caller's selection; the server keeps none.
// A nil Selection means the default one.
type RenderRequest struct {
	Selection *view.Selection `json:"selection,omitempty"`
	Query     string          `json:"query,omitempty"`
}

type RenderResponse struct {
	Screen   view.Screen `json:"screen"`
	Revision string      `json:"revision"`
}

type ListSymbolsRequest struct{}

type ListSymbolsResponse struct {
	Categories []symbols.Category `json:"categories"`
}

type FlushRequest struct{}

type FlushResponse struct {
	Revision string `json:"revision"`
	Dirty    bool   `json:"dirty"`
}
