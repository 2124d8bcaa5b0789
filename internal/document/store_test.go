package document

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/mmynk/mathnote/internal/models"
	"github.com/mmynk/mathnote/internal/storage"
	"github.com/mmynk/mathnote/internal/storage/memory"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// sequentialIDs returns an IDGenerator producing g-seq-1, n-seq-2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%sseq-%d", prefix, n)
	}
}

// setupStore creates a loaded store over an empty in-memory slot.
func setupStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()

	slot := memory.New()
	store := New(slot,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	)
	store.Load(context.Background())
	return store, slot
}

func strPtr(s string) *string { return &s }

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("empty storage yields seed", func(t *testing.T) {
		store := New(memory.New())
		doc := store.Load(ctx)

		if len(doc.Groups) != 2 {
			t.Fatalf("groups: expected 2, got %d", len(doc.Groups))
		}
		if len(doc.Groups[0].Notes) != 1 {
			t.Fatalf("first group notes: expected 1, got %d", len(doc.Groups[0].Notes))
		}
		if doc.Groups[0].Notes[0].Title != "Introduction to Vectors" {
			t.Errorf("seed note title = %q", doc.Groups[0].Notes[0].Title)
		}
		if !store.Loaded() {
			t.Error("expected store to be loaded")
		}
	})

	t.Run("seed is deterministic", func(t *testing.T) {
		a := New(memory.New()).Load(ctx)
		b := New(memory.New()).Load(ctx)
		if !reflect.DeepEqual(a, b) {
			t.Error("two loads from empty storage differ")
		}
	})

	corrupt := []struct {
		name  string
		value string
	}{
		{"not json", "{{{not json"},
		{"truncated", `{"groups":[{"id":"g-1","name":"x","notes":[`},
		{"json null", "null"},
		{"missing groups", `{"other":1}`},
		{"wrong type", `{"groups":"nope"}`},
	}
	for _, tt := range corrupt {
		t.Run("corrupted value yields seed: "+tt.name, func(t *testing.T) {
			slot := memory.New()
			if err := slot.Put(ctx, storage.DefaultKey, []byte(tt.value)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			doc := New(slot).Load(ctx)
			if !reflect.DeepEqual(doc, models.Seed()) {
				t.Errorf("expected seed document, got %+v", doc)
			}
		})
	}

	t.Run("persisted document is loaded", func(t *testing.T) {
		slot := memory.New()
		saved := `{"groups":[{"id":"g-a","name":"Topology","notes":[{"id":"n-a","title":"Open sets","content":"","timestamp":"2024-05-01T10:00:00.000Z"}]}]}`
		if err := slot.Put(ctx, storage.DefaultKey, []byte(saved)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		doc := New(slot).Load(ctx)
		if len(doc.Groups) != 1 || doc.Groups[0].Name != "Topology" {
			t.Fatalf("unexpected document: %+v", doc)
		}
		if doc.Groups[0].Notes[0].Title != "Open sets" {
			t.Errorf("note title = %q", doc.Groups[0].Notes[0].Title)
		}
	})

	t.Run("missing notes array decodes as empty", func(t *testing.T) {
		slot := memory.New()
		if err := slot.Put(ctx, storage.DefaultKey, []byte(`{"groups":[{"id":"g-a","name":"A"}]}`)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		doc := New(slot).Load(ctx)
		if doc.Groups[0].Notes == nil {
			t.Error("expected non-nil notes slice")
		}
	})
}

func TestAddGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("appends empty group", func(t *testing.T) {
		store, slot := setupStore(t)
		before := len(store.Snapshot().Groups)

		group, err := store.AddGroup(ctx, "Calculus II")
		if err != nil {
			t.Fatalf("AddGroup failed: %v", err)
		}

		doc := store.Snapshot()
		if len(doc.Groups) != before+1 {
			t.Fatalf("groups: expected %d, got %d", before+1, len(doc.Groups))
		}
		last := doc.Groups[len(doc.Groups)-1]
		if last.ID != group.ID || last.Name != "Calculus II" {
			t.Errorf("last group = %+v, want id %s", last, group.ID)
		}
		if len(last.Notes) != 0 {
			t.Errorf("new group notes: expected 0, got %d", len(last.Notes))
		}
		if slot.Puts() != 1 {
			t.Errorf("expected 1 write, got %d", slot.Puts())
		}
	})

	t.Run("trims name", func(t *testing.T) {
		store, _ := setupStore(t)
		group, err := store.AddGroup(ctx, "  Topology \t")
		if err != nil {
			t.Fatalf("AddGroup failed: %v", err)
		}
		if group.Name != "Topology" {
			t.Errorf("name = %q, want %q", group.Name, "Topology")
		}
	})

	for _, name := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("rejects blank name %q", name), func(t *testing.T) {
			store, slot := setupStore(t)
			before := store.Snapshot()

			_, err := store.AddGroup(ctx, name)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !reflect.DeepEqual(before, store.Snapshot()) {
				t.Error("document changed after rejected AddGroup")
			}
			if slot.Puts() != 0 {
				t.Errorf("expected no writes, got %d", slot.Puts())
			}
		})
	}

	t.Run("rapid calls get distinct ids", func(t *testing.T) {
		store := New(memory.New())
		store.Load(ctx)

		seen := make(map[string]bool)
		for i := 0; i < 200; i++ {
			g, err := store.AddGroup(ctx, fmt.Sprintf("group %d", i))
			if err != nil {
				t.Fatalf("AddGroup failed: %v", err)
			}
			if seen[g.ID] {
				t.Fatalf("duplicate group id %s", g.ID)
			}
			seen[g.ID] = true
		}
	})

	t.Run("generator collisions are skipped", func(t *testing.T) {
		ids := []string{"g-1", "g-2", "g-fresh"}
		store := New(memory.New(), WithIDGenerator(func(string) string {
			id := ids[0]
			ids = ids[1:]
			return id
		}))
		store.Load(ctx)

		group, err := store.AddGroup(ctx, "New")
		if err != nil {
			t.Fatalf("AddGroup failed: %v", err)
		}
		if group.ID != "g-fresh" {
			t.Errorf("id = %s, want g-fresh", group.ID)
		}
	})
}

func TestAddNote(t *testing.T) {
	ctx := context.Background()

	t.Run("prepends note to group", func(t *testing.T) {
		store, _ := setupStore(t)
		before := len(store.Snapshot().Groups[0].Notes)

		note, err := store.AddNote(ctx, "g-1")
		if err != nil {
			t.Fatalf("AddNote failed: %v", err)
		}

		notes := store.Snapshot().Groups[0].Notes
		if len(notes) != before+1 {
			t.Fatalf("notes: expected %d, got %d", before+1, len(notes))
		}
		if notes[0].ID != note.ID {
			t.Errorf("index 0 = %s, want new note %s", notes[0].ID, note.ID)
		}
		if notes[1].ID != "n-1" {
			t.Errorf("index 1 = %s, want existing note n-1", notes[1].ID)
		}
		if note.Title != "" || note.Content != "" {
			t.Errorf("expected empty title and content, got %+v", note)
		}
		if note.Timestamp != "2025-01-02T03:04:05.000Z" {
			t.Errorf("timestamp = %s", note.Timestamp)
		}
	})

	t.Run("other groups are untouched", func(t *testing.T) {
		store, _ := setupStore(t)
		if _, err := store.AddNote(ctx, "g-2"); err != nil {
			t.Fatalf("AddNote failed: %v", err)
		}

		doc := store.Snapshot()
		if len(doc.Groups[0].Notes) != 1 {
			t.Errorf("g-1 notes: expected 1, got %d", len(doc.Groups[0].Notes))
		}
		if len(doc.Groups[1].Notes) != 1 {
			t.Errorf("g-2 notes: expected 1, got %d", len(doc.Groups[1].Notes))
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		store, slot := setupStore(t)
		before := store.Snapshot()

		_, err := store.AddNote(ctx, "g-missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if !reflect.DeepEqual(before, store.Snapshot()) {
			t.Error("document changed after rejected AddNote")
		}
		if slot.Puts() != 0 {
			t.Errorf("expected no writes, got %d", slot.Puts())
		}
	})
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("title only", func(t *testing.T) {
		store, _ := setupStore(t)
		original, _, _ := store.Snapshot().FindNote("n-1")

		note, found, err := store.UpdateNote(ctx, "n-1", NoteUpdate{Title: strPtr("X")})
		if err != nil {
			t.Fatalf("UpdateNote failed: %v", err)
		}
		if !found {
			t.Fatal("expected note to be found")
		}

		got, _, _ := store.Snapshot().FindNote("n-1")
		if got.Title != "X" || note.Title != "X" {
			t.Errorf("title = %q, want X", got.Title)
		}
		if got.Content != original.Content {
			t.Error("content changed")
		}
		if got.Timestamp != original.Timestamp {
			t.Error("timestamp changed")
		}
	})

	t.Run("content and explicit timestamp", func(t *testing.T) {
		store, _ := setupStore(t)
		_, _, err := store.UpdateNote(ctx, "n-1", NoteUpdate{
			Content:   strPtr("$e^{i\\pi} + 1 = 0$"),
			Timestamp: strPtr("2025-06-01T12:00:00.000Z"),
		})
		if err != nil {
			t.Fatalf("UpdateNote failed: %v", err)
		}

		got, _, _ := store.Snapshot().FindNote("n-1")
		if got.Title != "Introduction to Vectors" {
			t.Errorf("title changed to %q", got.Title)
		}
		if got.Content != "$e^{i\\pi} + 1 = 0$" {
			t.Errorf("content = %q", got.Content)
		}
		if got.Timestamp != "2025-06-01T12:00:00.000Z" {
			t.Errorf("timestamp = %q", got.Timestamp)
		}
	})

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		store, slot := setupStore(t)
		before := store.Snapshot()

		_, found, err := store.UpdateNote(ctx, "n-missing", NoteUpdate{Title: strPtr("ghost")})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if found {
			t.Error("expected found = false")
		}
		if !reflect.DeepEqual(before, store.Snapshot()) {
			t.Error("document changed")
		}
		if slot.Puts() != 0 {
			t.Errorf("expected no writes, got %d", slot.Puts())
		}
	})

	t.Run("unknown id with invalid fields is still a no-op", func(t *testing.T) {
		store, slot := setupStore(t)

		_, found, err := store.UpdateNote(ctx, "n-missing", NoteUpdate{
			Timestamp: strPtr("yesterday"),
			Content:   strPtr("a\xffb"),
		})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if found {
			t.Error("expected found = false")
		}
		if slot.Puts() != 0 {
			t.Errorf("expected no writes, got %d", slot.Puts())
		}
	})

	t.Run("invalid timestamp rejected", func(t *testing.T) {
		store, _ := setupStore(t)
		_, _, err := store.UpdateNote(ctx, "n-1", NoteUpdate{Timestamp: strPtr("yesterday")})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("empty update writes nothing", func(t *testing.T) {
		store, slot := setupStore(t)
		_, found, err := store.UpdateNote(ctx, "n-1", NoteUpdate{})
		if err != nil || !found {
			t.Fatalf("UpdateNote = found %v, err %v", found, err)
		}
		if slot.Puts() != 0 {
			t.Errorf("expected no writes, got %d", slot.Puts())
		}
	})
}

func TestSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	first := store.Snapshot()
	second := store.Snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Error("consecutive snapshots differ")
	}

	if _, _, err := store.UpdateNote(ctx, "n-1", NoteUpdate{Title: strPtr("changed")}); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}
	if _, err := store.AddNote(ctx, "g-1"); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if _, err := store.AddGroup(ctx, "More"); err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}

	if first.Groups[0].Notes[0].Title != "Introduction to Vectors" {
		t.Errorf("earlier snapshot saw title %q", first.Groups[0].Notes[0].Title)
	}
	if len(first.Groups[0].Notes) != 1 || len(first.Groups) != 2 {
		t.Error("earlier snapshot changed shape")
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, slot := setupStore(t)

	mutations := []struct {
		name string
		run  func() error
	}{
		{"AddGroup", func() error { _, err := store.AddGroup(ctx, "Number Theory"); return err }},
		{"AddNote", func() error { _, err := store.AddNote(ctx, "g-2"); return err }},
		{"UpdateNote", func() error {
			_, _, err := store.UpdateNote(ctx, "n-1", NoteUpdate{Content: strPtr("updated")})
			return err
		}},
		{"RenameGroup", func() error { _, err := store.RenameGroup(ctx, "g-2", "Analysis"); return err }},
		{"DeleteNote", func() error { return store.DeleteNote(ctx, "n-1") }},
		{"DeleteGroup", func() error { return store.DeleteGroup(ctx, "g-1") }},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			if err := m.run(); err != nil {
				t.Fatalf("%s failed: %v", m.name, err)
			}

			reloaded := New(slot).Load(ctx)
			if !reflect.DeepEqual(reloaded, store.Snapshot()) {
				t.Errorf("reloaded document differs:\n got %+v\nwant %+v", reloaded, store.Snapshot())
			}
		})
	}
}

func TestScenarioNewGroupNoteAndTitle(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	group, err := store.AddGroup(ctx, "Calculus II")
	if err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	note, err := store.AddNote(ctx, group.ID)
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if _, _, err := store.UpdateNote(ctx, note.ID, NoteUpdate{Title: strPtr("Derivatives")}); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}

	doc := store.Snapshot()
	last := doc.Groups[len(doc.Groups)-1]
	if last.ID != group.ID {
		t.Fatalf("last group = %s, want %s", last.ID, group.ID)
	}
	if len(last.Notes) != 1 {
		t.Fatalf("notes: expected 1, got %d", len(last.Notes))
	}
	if last.Notes[0].Title != "Derivatives" {
		t.Errorf("title = %q, want Derivatives", last.Notes[0].Title)
	}
	if last.Notes[0].Content != "" {
		t.Errorf("content = %q, want empty", last.Notes[0].Content)
	}
}

func TestRenameAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		store, _ := setupStore(t)
		if _, err := store.RenameGroup(ctx, "g-2", " Real Analysis "); err != nil {
			t.Fatalf("RenameGroup failed: %v", err)
		}
		g, _ := store.Snapshot().FindGroup("g-2")
		if g.Name != "Real Analysis" {
			t.Errorf("name = %q", g.Name)
		}

		if _, err := store.RenameGroup(ctx, "g-2", " "); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := store.RenameGroup(ctx, "g-x", "Name"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete note", func(t *testing.T) {
		store, _ := setupStore(t)
		if err := store.DeleteNote(ctx, "n-1"); err != nil {
			t.Fatalf("DeleteNote failed: %v", err)
		}
		if store.Snapshot().NoteCount() != 0 {
			t.Error("note still present")
		}
		if err := store.DeleteNote(ctx, "n-1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("delete group", func(t *testing.T) {
		store, _ := setupStore(t)
		if err := store.DeleteGroup(ctx, "g-1"); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		doc := store.Snapshot()
		if len(doc.Groups) != 1 || doc.Groups[0].ID != "g-2" {
			t.Errorf("unexpected groups: %+v", doc.Groups)
		}
		if err := store.DeleteGroup(ctx, "g-1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("deleted ids are not reused", func(t *testing.T) {
		ids := []string{"n-1", "g-1", "n-fresh"}
		store := New(memory.New(), WithIDGenerator(func(string) string {
			id := ids[0]
			ids = ids[1:]
			return id
		}))
		store.Load(ctx)

		if err := store.DeleteGroup(ctx, "g-1"); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		note, err := store.AddNote(ctx, "g-2")
		if err != nil {
			t.Fatalf("AddNote failed: %v", err)
		}
		if note.ID != "n-fresh" {
			t.Errorf("id = %s, want n-fresh", note.ID)
		}
	})
}

func TestPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	store, slot := setupStore(t)

	slot.FailPuts(errors.New("quota exceeded"))

	group, err := store.AddGroup(ctx, "Unsaved")
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed, got %v", err)
	}
	if group.ID == "" {
		t.Error("expected the group to be returned despite the failed write")
	}
	if _, ok := store.Snapshot().FindGroup(group.ID); !ok {
		t.Error("mutation lost from memory")
	}
	if !store.Dirty() {
		t.Error("expected store to be dirty")
	}

	// Still failing: Flush reports the same condition.
	if err := store.Flush(ctx); !errors.Is(err, ErrPersistenceFailed) {
		t.Errorf("expected ErrPersistenceFailed from Flush, got %v", err)
	}

	slot.FailPuts(nil)
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if store.Dirty() {
		t.Error("expected store to be clean after Flush")
	}

	reloaded := New(slot).Load(ctx)
	if _, ok := reloaded.FindGroup(group.ID); !ok {
		t.Error("flushed group missing from storage")
	}
}

func TestFlushWhenClean(t *testing.T) {
	store, slot := setupStore(t)
	if err := store.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if slot.Puts() != 0 {
		t.Errorf("expected no writes, got %d", slot.Puts())
	}
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()

	a := New(slot)
	a.Load(ctx)
	b := New(slot)
	b.Load(ctx)

	revBefore := a.Revision()
	if _, err := b.AddGroup(ctx, "From B"); err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}

	changed, err := a.Reload(ctx)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if !changed {
		t.Error("expected Reload to report a change")
	}
	if a.Revision() == revBefore {
		t.Error("expected revision to change")
	}
	if a.Revision() != b.Revision() {
		t.Error("stores disagree after reload")
	}

	changed, err = a.Reload(ctx)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if changed {
		t.Error("second Reload reported a change")
	}

	t.Run("corrupt value keeps current document", func(t *testing.T) {
		if err := slot.Put(ctx, storage.DefaultKey, []byte("garbage")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		before := a.Snapshot()
		if _, err := a.Reload(ctx); err == nil {
			t.Error("expected error for corrupt value")
		}
		if !reflect.DeepEqual(before, a.Snapshot()) {
			t.Error("document replaced by corrupt value")
		}
	})
}

func TestReloadKeepsUnsavedChanges(t *testing.T) {
	ctx := context.Background()
	store, slot := setupStore(t)

	if _, err := store.AddGroup(ctx, "Saved"); err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}

	slot.FailPuts(errors.New("disk full"))
	if _, err := store.AddGroup(ctx, "Unsaved"); !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed, got %v", err)
	}
	pending := store.Snapshot()

	t.Run("write still failing", func(t *testing.T) {
		changed, err := store.Reload(ctx)
		if !errors.Is(err, ErrPersistenceFailed) {
			t.Errorf("expected ErrPersistenceFailed, got %v", err)
		}
		if changed {
			t.Error("Reload reported a change")
		}
		if !store.Dirty() {
			t.Error("store marked clean while changes are unsaved")
		}
		if !reflect.DeepEqual(pending, store.Snapshot()) {
			t.Error("unsaved changes replaced by slot value")
		}
	})

	t.Run("load returns unsaved document", func(t *testing.T) {
		if !reflect.DeepEqual(pending, store.Load(ctx)) {
			t.Error("Load dropped unsaved changes")
		}
	})

	t.Run("write recovers", func(t *testing.T) {
		slot.FailPuts(nil)

		changed, err := store.Reload(ctx)
		if err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		if changed {
			t.Error("Reload reported a change")
		}
		if store.Dirty() {
			t.Error("expected clean store")
		}

		groups := New(slot).Load(ctx).Groups
		if last := groups[len(groups)-1].Name; last != "Unsaved" {
			t.Errorf("slot last group = %q, want Unsaved", last)
		}
	})
}

func TestUnreadableSlot(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()
	saved := `{"groups":[{"id":"g-a","name":"Topology","notes":[]}]}`
	if err := slot.Put(ctx, storage.DefaultKey, []byte(saved)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	slot.FailGets(errors.New("i/o timeout"))
	store := New(slot)

	doc := store.Load(ctx)
	if !reflect.DeepEqual(doc, models.Seed()) {
		t.Errorf("expected seed while slot is unreadable, got %+v", doc)
	}
	if store.Loaded() {
		t.Error("store should stay unloaded after a failed read")
	}

	_, err := store.AddGroup(ctx, "Overwrite")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if _, _, err := store.UpdateNote(ctx, "n-1", NoteUpdate{Title: strPtr("x")}); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("UpdateNote: expected ErrStorageUnavailable, got %v", err)
	}

	if slot.Puts() != 1 {
		t.Fatalf("expected only the setup write, got %d", slot.Puts())
	}

	slot.FailGets(nil)
	if raw, _ := slot.Get(ctx, storage.DefaultKey); string(raw) != saved {
		t.Fatalf("saved document overwritten: %s", raw)
	}

	group, err := store.AddGroup(ctx, "Algebra")
	if err != nil {
		t.Fatalf("AddGroup after recovery failed: %v", err)
	}
	groups := store.Snapshot().Groups
	if len(groups) != 2 || groups[0].Name != "Topology" || groups[1].ID != group.ID {
		t.Errorf("expected saved group plus new one, got %+v", groups)
	}
}

func TestInvalidUTF8Rejected(t *testing.T) {
	ctx := context.Background()
	bad := "a\xffb"

	tests := []struct {
		name string
		call func(s *Store) error
	}{
		{"add group", func(s *Store) error {
			_, err := s.AddGroup(ctx, bad)
			return err
		}},
		{"rename group", func(s *Store) error {
			_, err := s.RenameGroup(ctx, "g-1", bad)
			return err
		}},
		{"note title", func(s *Store) error {
			_, _, err := s.UpdateNote(ctx, "n-1", NoteUpdate{Title: &bad})
			return err
		}},
		{"note content", func(s *Store) error {
			_, _, err := s.UpdateNote(ctx, "n-1", NoteUpdate{Content: &bad})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, slot := setupStore(t)
			before := store.Snapshot()

			if err := tt.call(store); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !reflect.DeepEqual(before, store.Snapshot()) {
				t.Error("document changed")
			}
			if slot.Puts() != 0 {
				t.Errorf("expected no writes, got %d", slot.Puts())
			}
		})
	}

	t.Run("valid multibyte text round-trips", func(t *testing.T) {
		store, slot := setupStore(t)
		content := "∫ αβγ ∑ 数学"
		if _, _, err := store.UpdateNote(ctx, "n-1", NoteUpdate{Content: &content}); err != nil {
			t.Fatalf("UpdateNote failed: %v", err)
		}
		if !reflect.DeepEqual(store.Snapshot(), New(slot).Load(ctx)) {
			t.Error("reloaded document differs from snapshot")
		}
	})
}

func TestRevision(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	r1 := store.Revision()
	if r1 != store.Revision() {
		t.Error("revision not stable without mutation")
	}
	if len(r1) != 64 {
		t.Errorf("revision length = %d, want 64 hex chars", len(r1))
	}

	if _, err := store.AddGroup(ctx, "Changed"); err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	if store.Revision() == r1 {
		t.Error("revision unchanged after mutation")
	}
}

func TestLazyLoad(t *testing.T) {
	store := New(memory.New())
	if store.Loaded() {
		t.Fatal("new store should not be loaded")
	}

	if _, err := store.AddNote(context.Background(), "g-1"); err != nil {
		t.Fatalf("AddNote on unloaded store failed: %v", err)
	}
	if !store.Loaded() {
		t.Error("expected mutation to load the store")
	}
}
