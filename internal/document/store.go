// Package document owns the in-memory notes document and keeps it in sync
// with its storage slot.
//
// Every mutation builds a new document instead of editing the current one:
// the groups slice is always fresh, the touched group gets a fresh notes
// slice, and untouched groups are shared. A snapshot handed out earlier is
// therefore never affected by later mutations, as long as callers treat it
// as read-only.
//
// After each mutation the whole document is written to the slot before the
// call returns. If that write fails the mutation is kept in memory and the
// call reports ErrPersistenceFailed; Flush retries the write.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mmynk/mathnote/internal/models"
	"github.com/mmynk/mathnote/internal/storage"
)

// NoteUpdate lists the note fields to replace. Nil fields are left untouched.
type NoteUpdate struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u NoteUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Timestamp == nil
}

// Store holds the canonical document.
//
// Operations are serialized by a mutex so the store can sit behind a server
// that handles requests concurrently. Two processes sharing one slot get
// last-write-wins semantics and nothing stronger.
type Store struct {
	slot  storage.Slot
	key   string
	clock func() time.Time
	newID IDGenerator

	mu       sync.Mutex
	doc      models.DataModel
	revision string
	loaded   bool
	dirty    bool
	retired  map[string]struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key the document is stored under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock sets the time source used for note timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator sets the id source for new groups and notes.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a Store over slot. The document is read on the first Load,
// or lazily by the first operation that needs it.
func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		key:     storage.DefaultKey,
		clock:   time.Now,
		newID:   NewUUIDv7,
		retired: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the document from the slot. A missing or unparseable value
// yields the seed document; Load never fails.
//
// If the slot cannot be read at all, Load returns the seed but the store stays
// unloaded: the next operation reads again, and mutations fail with
// ErrStorageUnavailable until a read succeeds, so the seed never overwrites
// a saved document. A dirty store returns its unsaved document unchanged.
func (s *Store) Load(ctx context.Context) models.DataModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty {
		return s.doc
	}
	_ = s.load(ctx)
	return s.doc
}

func (s *Store) load(ctx context.Context) error {
	doc, err := s.read(ctx)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		slog.Info("No saved document, using seed", "key", s.key)
		doc = models.Seed()
	case errors.Is(err, errMalformed):
		slog.Warn("Saved document unusable, using seed", "key", s.key, "error", err)
		doc = models.Seed()
	default:
		slog.Warn("Storage read failed", "key", s.key, "error", err)
		if !s.loaded {
			s.set(models.Seed())
		}
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s.set(doc)
	s.loaded = true
	s.dirty = false
	return nil
}

func (s *Store) read(ctx context.Context) (models.DataModel, error) {
	data, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return models.DataModel{}, err
	}
	return Decode(data)
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.load(ctx)
}

// set installs doc as the current document and refreshes its revision.
func (s *Store) set(doc models.DataModel) []byte {
	s.doc = doc
	encoded, err := Encode(doc)
	if err != nil {
		// Plain strings and slices always encode.
		panic(err)
	}
	s.revision = fingerprint(encoded)
	documentBytes.Set(float64(len(encoded)))
	return encoded
}

// Loaded reports whether the document has been read from the slot.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Snapshot returns the current document. Callers must not modify it.
// Loads the document first if nothing has been loaded yet.
func (s *Store) Snapshot() models.DataModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLoaded(context.Background())
	return s.doc
}

// Revision returns a fingerprint of the current document. Equal revisions
// mean equal documents, so a client can skip re-rendering when it matches.
func (s *Store) Revision() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLoaded(context.Background())
	return s.revision
}

// Dirty reports whether the last write to the slot failed.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// AddGroup appends a new, empty group named name (trimmed).
func (s *Store) AddGroup(ctx context.Context, name string) (models.Group, error) {
	const op = "add_group"

	name = strings.TrimSpace(name)
	if name == "" {
		mutationsTotal.WithLabelValues(op, resultInvalid).Inc()
		return models.Group{}, fmt.Errorf("%w: group name is empty", ErrInvalidInput)
	}
	if err := checkText("group name", name); err != nil {
		mutationsTotal.WithLabelValues(op, resultInvalid).Inc()
		return models.Group{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		mutationsTotal.WithLabelValues(op, resultUnavailable).Inc()
		return models.Group{}, err
	}

	group := models.Group{
		ID:    s.uniqueID(groupPrefix),
		Name:  name,
		Notes: []models.Note{},
	}

	groups := make([]models.Group, len(s.doc.Groups), len(s.doc.Groups)+1)
	copy(groups, s.doc.Groups)
	groups = append(groups, group)

	slog.Debug("Group added", "group_id", group.ID, "name", group.Name)
	return group, s.commit(ctx, op, models.DataModel{Groups: groups})
}

// AddNote prepends a new note with empty title and content to a group.
func (s *Store) AddNote(ctx context.Context, groupID string) (models.Note, error) {
	const op = "add_note"

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		mutationsTotal.WithLabelValues(op, resultUnavailable).Inc()
		return models.Note{}, err
	}

	gi := s.doc.GroupIndex(groupID)
	if gi < 0 {
		mutationsTotal.WithLabelValues(op, resultNotFound).Inc()
		return models.Note{}, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}

	note := models.Note{
		ID:        s.uniqueID(notePrefix),
		Title:     "",
		Content:   "",
		Timestamp: models.FormatTimestamp(s.clock()),
	}

	old := s.doc.Groups[gi]
	notes := make([]models.Note, 0, len(old.Notes)+1)
	notes = append(notes, note)
	notes = append(notes, old.Notes...)

	slog.Debug("Note added", "group_id", groupID, "note_id", note.ID)
	return note, s.commit(ctx, op, s.replaceGroup(gi, models.Group{ID: old.ID, Name: old.Name, Notes: notes}))
}

// UpdateNote replaces the fields set in update on the note with the given id.
// An unknown id is not an error: nothing changes and found is false, whatever
// the update holds. Fields are validated only once the note is found.
// An empty update finds the note but writes nothing.
func (s *Store) UpdateNote(ctx context.Context, noteID string, update NoteUpdate) (models.Note, bool, error) {
	const op = "update_note"

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		mutationsTotal.WithLabelValues(op, resultUnavailable).Inc()
		return models.Note{}, false, err
	}

	gi, ni := s.locateNote(noteID)
	if gi < 0 {
		slog.Debug("Update for unknown note ignored", "note_id", noteID)
		mutationsTotal.WithLabelValues(op, resultNoop).Inc()
		return models.Note{}, false, nil
	}

	if err := update.validate(); err != nil {
		mutationsTotal.WithLabelValues(op, resultInvalid).Inc()
		return models.Note{}, true, err
	}

	old := s.doc.Groups[gi]
	note := old.Notes[ni]
	if update.Empty() {
		mutationsTotal.WithLabelValues(op, resultNoop).Inc()
		return note, true, nil
	}

	if update.Title != nil {
		note.Title = *update.Title
	}
	if update.Content != nil {
		note.Content = *update.Content
	}
	if update.Timestamp != nil {
		note.Timestamp = *update.Timestamp
	}

	notes := make([]models.Note, len(old.Notes))
	copy(notes, old.Notes)
	notes[ni] = note

	return note, true, s.commit(ctx, op, s.replaceGroup(gi, models.Group{ID: old.ID, Name: old.Name, Notes: notes}))
}

// RenameGroup changes a group's name (trimmed).
func (s *Store) RenameGroup(ctx context.Context, groupID, name string) (models.Group, error) {
	const op = "rename_group"

	name = strings.TrimSpace(name)
	if name == "" {
		mutationsTotal.WithLabelValues(op, resultInvalid).Inc()
		return models.Group{}, fmt.Errorf("%w: group name is empty", ErrInvalidInput)
	}
	if err := checkText("group name", name); err != nil {
		mutationsTotal.WithLabelValues(op, resultInvalid).Inc()
		return models.Group{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		mutationsTotal.WithLabelValues(op, resultUnavailable).Inc()
		return models.Group{}, err
	}

	gi := s.doc.GroupIndex(groupID)
	if gi < 0 {
		mutationsTotal.WithLabelValues(op, resultNotFound).Inc()
		return models.Group{}, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}

	group := s.doc.Groups[gi]
	group.Name = name
	return group, s.commit(ctx, op, s.replaceGroup(gi, group))
}

// DeleteGroup removes a group together with its notes.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	const op = "delete_group"

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		mutationsTotal.WithLabelValues(op, resultUnavailable).Inc()
		return err
	}

	gi := s.doc.GroupIndex(groupID)
	if gi < 0 {
		mutationsTotal.WithLabelValues(op, resultNotFound).Inc()
		return fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}

	removed := s.doc.Groups[gi]
	s.retired[removed.ID] = struct{}{}
	for _, n := range removed.Notes {
		s.retired[n.ID] = struct{}{}
	}

	groups := make([]models.Group, 0, len(s.doc.Groups)-1)
	groups = append(groups, s.doc.Groups[:gi]...)
	groups = append(groups, s.doc.Groups[gi+1:]...)

	slog.Debug("Group deleted", "group_id", groupID, "notes", len(removed.Notes))
	return s.commit(ctx, op, models.DataModel{Groups: groups})
}

// DeleteNote removes a note from whichever group holds it.
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	const op = "delete_note"

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		mutationsTotal.WithLabelValues(op, resultUnavailable).Inc()
		return err
	}

	gi, ni := s.locateNote(noteID)
	if gi < 0 {
		mutationsTotal.WithLabelValues(op, resultNotFound).Inc()
		return fmt.Errorf("%w: note %s", ErrNotFound, noteID)
	}
	s.retired[noteID] = struct{}{}

	old := s.doc.Groups[gi]
	notes := make([]models.Note, 0, len(old.Notes)-1)
	notes = append(notes, old.Notes[:ni]...)
	notes = append(notes, old.Notes[ni+1:]...)

	slog.Debug("Note deleted", "group_id", old.ID, "note_id", noteID)
	return s.commit(ctx, op, s.replaceGroup(gi, models.Group{ID: old.ID, Name: old.Name, Notes: notes}))
}

// Reload re-reads the slot after another process wrote it, replacing the
// in-memory document (last write wins). It reports whether anything changed.
// A missing or unparseable value leaves the current document in place.
//
// A dirty store holds changes the slot never received. Reload then writes
// them instead of reading, and keeps them if that write fails again.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.load(ctx); err != nil {
			return false, fmt.Errorf("reload %s: %w", s.key, err)
		}
		return true, nil
	}

	if s.dirty {
		encoded, err := Encode(s.doc)
		if err != nil {
			return false, err
		}
		if err := s.persist(ctx, encoded); err != nil {
			return false, fmt.Errorf("reload %s: unsaved changes kept: %w", s.key, err)
		}
		slog.Info("Unsaved changes written instead of reloading", "key", s.key, "revision", s.revision)
		return false, nil
	}

	doc, err := s.read(ctx)
	if err != nil {
		return false, fmt.Errorf("reload %s: %w", s.key, err)
	}

	before := s.revision
	s.set(doc)
	s.dirty = false
	if s.revision == before {
		return false, nil
	}

	slog.Info("Document reloaded from slot", "key", s.key, "revision", s.revision)
	return true, nil
}

// Flush writes the current document to the slot if an earlier write failed.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	encoded, err := Encode(s.doc)
	if err != nil {
		return err
	}
	return s.persist(ctx, encoded)
}

// commit installs next and writes it to the slot.
// Must be called with s.mu held.
func (s *Store) commit(ctx context.Context, op string, next models.DataModel) error {
	encoded := s.set(next)
	if err := s.persist(ctx, encoded); err != nil {
		mutationsTotal.WithLabelValues(op, resultPersistFailed).Inc()
		return err
	}
	mutationsTotal.WithLabelValues(op, resultOK).Inc()
	return nil
}

func (s *Store) persist(ctx context.Context, encoded []byte) error {
	start := time.Now()
	err := s.slot.Put(ctx, s.key, encoded)
	persistDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.dirty = true
		persistFailures.Inc()
		slog.Error("Failed to persist document", "key", s.key, "bytes", len(encoded), "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	s.dirty = false
	return nil
}

// replaceGroup returns a copy of the document with the group at gi replaced.
func (s *Store) replaceGroup(gi int, group models.Group) models.DataModel {
	groups := make([]models.Group, len(s.doc.Groups))
	copy(groups, s.doc.Groups)
	groups[gi] = group
	return models.DataModel{Groups: groups}
}

func (s *Store) locateNote(noteID string) (int, int) {
	for gi, g := range s.doc.Groups {
		if ni := g.NoteIndex(noteID); ni >= 0 {
			return gi, ni
		}
	}
	return -1, -1
}

// uniqueID draws ids until one is unused by the document and by anything
// deleted during this session.
func (s *Store) uniqueID(prefix string) string {
	for {
		id := s.newID(prefix)
		if _, gone := s.retired[id]; gone {
			continue
		}
		if s.inUse(id) {
			continue
		}
		return id
	}
}

func (s *Store) inUse(id string) bool {
	for _, g := range s.doc.Groups {
		if g.ID == id || g.NoteIndex(id) >= 0 {
			return true
		}
	}
	return false
}

// validate checks the fields an update sets.
func (u NoteUpdate) validate() error {
	if u.Title != nil {
		if err := checkText("title", *u.Title); err != nil {
			return err
		}
	}
	if u.Content != nil {
		if err := checkText("content", *u.Content); err != nil {
			return err
		}
	}
	if u.Timestamp != nil {
		if _, err := models.ParseTimestamp(*u.Timestamp); err != nil {
			return fmt.Errorf("%w: timestamp %q: %v", ErrInvalidInput, *u.Timestamp, err)
		}
	}
	return nil
}

// checkText rejects strings JSON cannot carry unchanged.
func checkText(field, value string) error {
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidInput, field)
	}
	return nil
}
