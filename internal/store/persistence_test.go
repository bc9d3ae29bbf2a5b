package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"gtodo-cli/internal/model"
)

func newTestPersistence(t *testing.T) (*Persistence, *MemoryBackend, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	m := NewMemoryBackend()
	return NewPersistence(m, "todos", logger), m, hook
}

func TestPersistence_LoadMissingKeyReturnsDefault(t *testing.T) {
	t.Parallel()

	p, _, _ := newTestPersistence(t)
	db, rep := p.Load(context.Background())
	if !rep.UsedDefault {
		t.Fatalf("expected default store for a missing key")
	}
	if !reflect.DeepEqual(db, DefaultDB()) {
		t.Fatalf("expected DefaultDB, got %#v", db)
	}
}

type failingReadBackend struct{ *MemoryBackend }

func (failingReadBackend) Read(context.Context, string) ([]byte, error) {
	return nil, errors.New("io error")
}

func TestPersistence_LoadReadErrorIsLoggedAndDegrades(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	p := NewPersistence(failingReadBackend{NewMemoryBackend()}, "todos", logger)

	db, rep := p.Load(context.Background())
	if !rep.UsedDefault || len(db.Folders) == 0 {
		t.Fatalf("expected default store, got %#v", rep)
	}
	var found bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel && e.Message == "load failed; using default store" {
			found = true
			if e.Data["key"] != "todos" {
				t.Fatalf("expected key field, got %#v", e.Data)
			}
		}
	}
	if !found {
		t.Fatalf("expected a warning log entry, got %d entries", len(hook.AllEntries()))
	}
}

func TestPersistence_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	p, _, _ := newTestPersistence(t)
	ctx := context.Background()

	first, _ := p.Load(ctx)
	first.Folders = append(first.Folders, model.Folder{ID: "fld-x", Name: "X", Categories: []model.Category{}})
	if err := p.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, rep := p.Load(ctx)
	if !rep.Clean() {
		t.Fatalf("expected clean load: %#v", rep)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", first, second)
	}
}

func TestPersistence_SaveWrapsBackendError(t *testing.T) {
	t.Parallel()

	p, m, _ := newTestPersistence(t)
	m.SetFailWrites(errors.New("quota exceeded"))

	err := p.Save(context.Background(), DefaultDB())
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %T %v", err, err)
	}
	if pe.Op != "write" || pe.Key != "todos" || pe.Backend != BackendMemory {
		t.Fatalf("unexpected error fields: %#v", pe)
	}
}

func TestAutosaver_CoalescesAndFlushes(t *testing.T) {
	t.Parallel()

	p, m, _ := newTestPersistence(t)
	a := NewAutosaver(p)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var last *DB
	for i := 0; i < 20; i++ {
		db := DefaultDB()
		db.Folders[0].Name = string(rune('A' + i))
		a.Enqueue(db)
		last = db
	}
	if err := a.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if m.Writes() < 1 || m.Writes() > 20 {
		t.Fatalf("unexpected write count %d", m.Writes())
	}
	got, _ := p.Load(ctx)
	if got.Folders[0].Name != last.Folders[0].Name {
		t.Fatalf("expected latest snapshot to win, got %q", got.Folders[0].Name)
	}
	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestAutosaver_FailureIsLoggedAndNextSaveRetries(t *testing.T) {
	t.Parallel()

	p, m, hook := newTestPersistence(t)
	a := NewAutosaver(p)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	defer a.Close(ctx)

	m.SetFailWrites(errors.New("disk full"))
	a.Enqueue(DefaultDB())
	if err := a.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, failed := a.Stats(); failed != 1 {
		t.Fatalf("expected 1 failed save, got %d", failed)
	}
	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel && e.Message == "autosave failed" {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected autosave failure to be logged")
	}

	m.SetFailWrites(nil)
	a.Enqueue(DefaultDB())
	if err := a.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if saved, _ := a.Stats(); saved != 1 {
		t.Fatalf("expected the next save to succeed, got saved=%d", saved)
	}
}

func TestAutosaver_CloseDrainsPending(t *testing.T) {
	t.Parallel()

	p, m, _ := newTestPersistence(t)
	a := NewAutosaver(p)
	a.Enqueue(DefaultDB())
	a.EnqueueUI(UIState{FolderID: "fld-work"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := m.Read(ctx, "todos"); err != nil {
		t.Fatalf("expected document written on close: %v", err)
	}
	st := LoadUIState(ctx, m, p.UIKey())
	if st.FolderID != "fld-work" {
		t.Fatalf("expected ui state written on close, got %#v", st)
	}

	// Enqueue after close is dropped, not a panic.
	a.Enqueue(DefaultDB())
	if err := a.Flush(ctx); err != nil {
		t.Fatalf("Flush after close: %v", err)
	}
}

func TestUIState_BestEffort(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryBackend()
	if st := LoadUIState(ctx, m, "k.ui"); st.Version != 1 || st.FolderID != "" {
		t.Fatalf("expected zero state, got %#v", st)
	}
	_ = m.Write(ctx, "k.ui", []byte("{garbage"))
	if st := LoadUIState(ctx, m, "k.ui"); st.Version != 1 || st.FolderID != "" {
		t.Fatalf("expected zero state for corrupt value, got %#v", st)
	}
	id := int64(42)
	want := UIState{Version: 1, FolderID: "f", CategoryID: "c", TodoID: &id, Board: true}
	if err := SaveUIState(ctx, m, "k.ui", want); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	if got := LoadUIState(ctx, m, "k.ui"); !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}
