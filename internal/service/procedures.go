package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// NotebookServiceName is the fully-qualified name of the NotebookService.
const NotebookServiceName = "mathnote.v1.NotebookService"

// Fully-qualified procedure paths, usable as HTTP routes.
const (
	GetSnapshotProcedure = "/" + NotebookServiceName + "/GetSnapshot"
	AddGroupProcedure    = "/" + NotebookServiceName + "/AddGroup"
	AddNoteProcedure     = "/" + NotebookServiceName + "/AddNote"
	UpdateNoteProcedure  = "/" + NotebookServiceName + "/UpdateNote"
	RenameGroupProcedure = "/" + NotebookServiceName + "/RenameGroup"
	DeleteGroupProcedure = "/" + NotebookServiceName + "/DeleteGroup"
	DeleteNoteProcedure  = "/" + NotebookServiceName + "/DeleteNote"
	ListNotesProcedure   = "/" + NotebookServiceName + "/ListNotes"
	RenderProcedure      = "/" + NotebookServiceName + "/Render"
	ListSymbolsProcedure = "/" + NotebookServiceName + "/ListSymbols"
	FlushProcedure       = "/" + NotebookServiceName + "/Flush"
)

// NotebookServiceHandler is implemented by NotebookService.
type NotebookServiceHandler interface {
	GetSnapshot(context.Context, *connect.Request[GetSnapshotRequest]) (*connect.Response[GetSnapshotResponse], error)
	AddGroup(context.Context, *connect.Request[AddGroupRequest]) (*connect.Response[AddGroupResponse], error)
	AddNote(context.Context, *connect.Request[AddNoteRequest]) (*connect.Response[AddNoteResponse], error)
	UpdateNote(context.Context, *connect.Request[UpdateNoteRequest]) (*connect.Response[UpdateNoteResponse], error)
	RenameGroup(context.Context, *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteResponse], error)
	DeleteNote(context.Context, *connect.Request[DeleteNoteRequest]) (*connect.Response[DeleteResponse], error)
	ListNotes(context.Context, *connect.Request[ListNotesRequest]) (*connect.Response[ListNotesResponse], error)
	Render(context.Context, *connect.Request[RenderRequest]) (*connect.Response[RenderResponse], error)
	ListSymbols(context.Context, *connect.Request[ListSymbolsRequest]) (*connect.Response[ListSymbolsResponse], error)
	Flush(context.Context, *connect.Request[FlushRequest]) (*connect.Response[FlushResponse], error)
}

var _ NotebookServiceHandler = (*NotebookService)(nil)

// NewNotebookServiceHandler builds an HTTP handler serving every procedure of
// svc. It returns the path prefix to mount it on.
func NewNotebookServiceHandler(svc NotebookServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetSnapshotProcedure, connect.NewUnaryHandler(GetSnapshotProcedure, svc.GetSnapshot, opts...))
	mux.Handle(AddGroupProcedure, connect.NewUnaryHandler(AddGroupProcedure, svc.AddGroup, opts...))
	mux.Handle(AddNoteProcedure, connect.NewUnaryHandler(AddNoteProcedure, svc.AddNote, opts...))
	mux.Handle(UpdateNoteProcedure, connect.NewUnaryHandler(UpdateNoteProcedure, svc.UpdateNote, opts...))
	mux.Handle(RenameGroupProcedure, connect.NewUnaryHandler(RenameGroupProcedure, svc.RenameGroup, opts...))
	mux.Handle(DeleteGroupProcedure, connect.NewUnaryHandler(DeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(DeleteNoteProcedure, connect.NewUnaryHandler(DeleteNoteProcedure, svc.DeleteNote, opts...))
	mux.Handle(ListNotesProcedure, connect.NewUnaryHandler(ListNotesProcedure, svc.ListNotes, opts...))
	mux.Handle(RenderProcedure, connect.NewUnaryHandler(RenderProcedure, svc.Render, opts...))
	mux.Handle(ListSymbolsProcedure, connect.NewUnaryHandler(ListSymbolsProcedure, svc.ListSymbols, opts...))
	mux.Handle(FlushProcedure, connect.NewUnaryHandler(FlushProcedure, svc.Flush, opts...))

	return "/" + NotebookServiceName + "/", mux
}

// NotebookServiceClient is a client for the NotebookService.
type NotebookServiceClient struct {
	getSnapshot *connect.Client[GetSnapshotRequest, GetSnapshotResponse]
	addGroup    *connect.Client[AddGroupRequest, AddGroupResponse]
	addNote     *connect.Client[AddNoteRequest, AddNoteResponse]
	updateNote  *connect.Client[UpdateNoteRequest, UpdateNoteResponse]
	renameGroup *connect.Client[RenameGroupRequest, RenameGroupResponse]
	deleteGroup *connect.Client[DeleteGroupRequest, DeleteResponse]
	deleteNote  *connect.Client[DeleteNoteRequest, DeleteResponse]
	listNotes   *connect.Client[ListNotesRequest, ListNotesResponse]
	render      *connect.Client[RenderRequest, RenderResponse]
	listSymbols *connect.Client[ListSymbolsRequest, ListSymbolsResponse]
	flush       *connect.Client[FlushRequest, FlushResponse]
}

// NewNotebookServiceClient constructs a client for the NotebookService at
// baseURL. It speaks the Connect protocol with JSON bodies.
func NewNotebookServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *NotebookServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &NotebookServiceClient{
		getSnapshot: connect.NewClient[GetSnapshotRequest, GetSnapshotResponse](httpClient, baseURL+GetSnapshotProcedure, opts...),
		addGroup:    connect.NewClient[AddGroupRequest, AddGroupResponse](httpClient, baseURL+AddGroupProcedure, opts...),
		addNote:     connect.NewClient[AddNoteRequest, AddNoteResponse](httpClient, baseURL+AddNoteProcedure, opts...),
		updateNote:  connect.NewClient[UpdateNoteRequest, UpdateNoteResponse](httpClient, baseURL+UpdateNoteProcedure, opts...),
		renameGroup: connect.NewClient[RenameGroupRequest, RenameGroupResponse](httpClient, baseURL+RenameGroupProcedure, opts...),
		deleteGroup: connect.NewClient[DeleteGroupRequest, DeleteResponse](httpClient, baseURL+DeleteGroupProcedure, opts...),
		deleteNote:  connect.NewClient[DeleteNoteRequest, DeleteResponse](httpClient, baseURL+DeleteNoteProcedure, opts...),
		listNotes:   connect.NewClient[ListNotesRequest, ListNotesResponse](httpClient, baseURL+ListNotesProcedure, opts...),
		render:      connect.NewClient[RenderRequest, RenderResponse](httpClient, baseURL+RenderProcedure, opts...),
		listSymbols: connect.NewClient[ListSymbolsRequest, ListSymbolsResponse](httpClient, baseURL+ListSymbolsProcedure, opts...),
		flush:       connect.NewClient[FlushRequest, FlushResponse](httpClient, baseURL+FlushProcedure, opts...),
	}
}

func (c *NotebookServiceClient) GetSnapshot(ctx context.Context, req *connect.Request[GetSnapshotRequest]) (*connect.Response[GetSnapshotResponse], error) {
	return c.getSnapshot.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) AddGroup(ctx context.Context, req *connect.Request[AddGroupRequest]) (*connect.Response[AddGroupResponse], error) {
	return c.addGroup.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) AddNote(ctx context.Context, req *connect.Request[AddNoteRequest]) (*connect.Response[AddNoteResponse], error) {
	return c.addNote.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) UpdateNote(ctx context.Context, req *connect.Request[UpdateNoteRequest]) (*connect.Response[UpdateNoteResponse], error) {
	return c.updateNote.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) RenameGroup(ctx context.Context, req *connect.Request[RenameGroupRequest]) (*connect.Response[RenameGroupResponse], error) {
	return c.renameGroup.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) DeleteNote(ctx context.Context, req *connect.Request[DeleteNoteRequest]) (*connect.Response[DeleteResponse], error) {
	return c.deleteNote.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) ListNotes(ctx context.Context, req *connect.Request[ListNotesRequest]) (*connect.Response[ListNotesResponse], error) {
	return c.listNotes.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) Render(ctx context.Context, req *connect.Request[RenderRequest]) (*connect.Response[RenderResponse], error) {
	return c.render.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) ListSymbols(ctx context.Context, req *connect.Request[ListSymbolsRequest]) (*connect.Response[ListSymbolsResponse], error) {
	return c.listSymbols.CallUnary(ctx, req)
}

func (c *NotebookServiceClient) Flush(ctx context.Context, req *connect.Request[FlushRequest]) (*connect.Response[FlushResponse], error) {
	return c.flush.CallUnary(ctx, req)
}
