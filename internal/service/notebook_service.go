package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mathnote/internal/document"
	"github.com/mmynk/mathnote/internal/models"
	"github.com/mmynk/mathnote/internal/symbols"
	"github.com/mmynk/mathnote/internal/view"
)

// NotebookService implements the Connect NotebookService over a document store.
type NotebookService struct {
	store *document.Store
}

// NewNotebookService creates a NotebookService backed by store.
func NewNotebookService(store *document.Store) *NotebookService {
	return &NotebookService{store: store}
}

// GetSnapshot returns the whole document.
func (s *NotebookService) GetSnapshot(ctx context.Context, req *connect.Request[GetSnapshotRequest]) (*connect.Response[GetSnapshotResponse], error) {
	doc := s.store.Snapshot()

	return connect.NewResponse(&GetSnapshotResponse{
		Document: doc,
		Revision: s.store.Revision(),
		Dirty:    s.store.Dirty(),
	}), nil
}

// AddGroup creates a new group.
func (s *NotebookService) AddGroup(ctx context.Context, req *connect.Request[AddGroupRequest]) (*connect.Response[AddGroupResponse], error) {
	slog.Info("AddGroup request received", "name", req.Msg.Name)

	group, err := s.store.AddGroup(ctx, req.Msg.Name)
	warning, err := splitPersistError(err)
	if err != nil {
		slog.Warn("AddGroup rejected", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&AddGroupResponse{
		Group:    group,
		Revision: s.store.Revision(),
		Warning:  warning,
	}), nil
}

// AddNote creates an empty note at the top of a group.
func (s *NotebookService) AddNote(ctx context.Context, req *connect.Request[AddNoteRequest]) (*connect.Response[AddNoteResponse], error) {
	slog.Info("AddNote request received", "group_id", req.Msg.GroupID)

	note, err := s.store.AddNote(ctx, req.Msg.GroupID)
	warning, err := splitPersistError(err)
	if err != nil {
		slog.Warn("AddNote rejected", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Note created", "group_id", req.Msg.GroupID, "note_id", note.ID)

	return connect.NewResponse(&AddNoteResponse{
		Note:     note,
		Revision: s.store.Revision(),
		Warning:  warning,
	}), nil
}

// UpdateNote edits a note's title, content or timestamp.
// Editors send this on every debounced keystroke, so it logs at debug.
func (s *NotebookService) UpdateNote(ctx context.Context, req *connect.Request[UpdateNoteRequest]) (*connect.Response[UpdateNoteResponse], error) {
	slog.Debug("UpdateNote request received", "note_id", req.Msg.NoteID)

	note, found, err := s.store.UpdateNote(ctx, req.Msg.NoteID, document.NoteUpdate{
		Title:     req.Msg.Title,
		Content:   req.Msg.Content,
		Timestamp: req.Msg.Timestamp,
	})
	warning, err := splitPersistError(err)
	if err != nil {
		slog.Warn("UpdateNote rejected", "note_id", req.Msg.NoteID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &UpdateNoteResponse{
		Found:    found,
		Revision: s.store.Revision(),
		Warning:  warning,
	}
	if found {
		resp.Note = &note
	}
	return connect.NewResponse(resp), nil
}

// RenameGroup changes a group's name.
func (s *NotebookService) RenameGroup(ctx context.Context, req *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error) {
	slog.Info("RenameGroup request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	group, err := s.store.RenameGroup(ctx, req.Msg.GroupID, req.Msg.Name)
	warning, err := splitPersistError(err)
	if err != nil {
		slog.Warn("RenameGroup rejected", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&RenameGroupResponse{
		Group:    group,
		Revision: s.store.Revision(),
		Warning:  warning,
	}), nil
}

// DeleteGroup removes a group and its notes.
func (s *NotebookService) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	warning, err := splitPersistError(s.store.DeleteGroup(ctx, req.Msg.GroupID))
	if err != nil {
		slog.Warn("DeleteGroup rejected", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&DeleteResponse{
		Revision: s.store.Revision(),
		Warning:  warning,
	}), nil
}

// DeleteNote removes a note.
func (s *NotebookService) DeleteNote(ctx context.Context, req *connect.Request[DeleteNoteRequest]) (*connect.Response[DeleteResponse], error) {
	slog.Info("DeleteNote request received", "note_id", req.Msg.NoteID)

	warning, err := splitPersistError(s.store.DeleteNote(ctx, req.Msg.NoteID))
	if err != nil {
		slog.Warn("DeleteNote rejected", "note_id", req.Msg.NoteID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&DeleteResponse{
		Revision: s.store.Revision(),
		Warning:  warning,
	}), nil
}

// ListNotes returns a group's notes matching an optional search query.
func (s *NotebookService) ListNotes(ctx context.Context, req *connect.Request[ListNotesRequest]) (*connect.Response[ListNotesResponse], error) {
	group, ok := s.store.Snapshot().FindGroup(req.Msg.GroupID)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("group %s not found", req.Msg.GroupID))
	}

	notes := view.FilterNotes(group.Notes, req.Msg.Query)
	if notes == nil {
		notes = []models.Note{}
	}

	return connect.NewResponse(&ListNotesResponse{Notes: notes}), nil
}

// Render returns the three panes for the caller's selection.
func (s *NotebookService) Render(ctx context.Context, req *connect.Request[RenderRequest]) (*connect.Response[RenderResponse], error) {
	doc := s.store.Snapshot()

	sel := view.DefaultSelection(doc)
	if req.Msg.Selection != nil {
		sel = *req.Msg.Selection
	}

	return connect.NewResponse(&RenderResponse{
		Screen:   view.Render(doc, sel, req.Msg.Query),
		Revision: s.store.Revision(),
	}), nil
}

// ListSymbols returns the math template table.
func (s *NotebookService) ListSymbols(ctx context.Context, req *connect.Request[ListSymbolsRequest]) (*connect.Response[ListSymbolsResponse], error) {
	return connect.NewResponse(&ListSymbolsResponse{Categories: symbols.Categories()}), nil
}

// Flush retries saving after a failed write.
func (s *NotebookService) Flush(ctx context.Context, req *connect.Request[FlushRequest]) (*connect.Response[FlushResponse], error) {
	slog.Info("Flush request received")

	if err := s.store.Flush(ctx); err != nil {
		slog.Error("Flush failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	return connect.NewResponse(&FlushResponse{
		Revision: s.store.Revision(),
		Dirty:    s.store.Dirty(),
	}), nil
}

// splitPersistError turns a persistence failure into a warning: the change
// is in memory and the caller should see it succeed.
func splitPersistError(err error) (string, error) {
	if errors.Is(err, document.ErrPersistenceFailed) {
		return "change applied but not saved: " + err.Error(), nil
	}
	return "", err
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, document.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, document.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, document.ErrStorageUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
