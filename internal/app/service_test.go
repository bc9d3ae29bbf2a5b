package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"gtodo-cli/internal/mutate"
	"gtodo-cli/internal/selection"
	"gtodo-cli/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return New(store.DefaultDB(), selection.Selection{}, logger)
}

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) listen(c Change) {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
}

func (r *recorder) kinds() []ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ChangeKind, 0, len(r.changes))
	for _, c := range r.changes {
		out = append(out, c.Kind)
	}
	return out
}

func TestService_NewRepairsInitialSelection(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	if got := svc.Selection().FolderID; got != "fld-work" {
		t.Fatalf("expected first folder selected, got %q", got)
	}
	if svc.View() != ViewList {
		t.Fatalf("expected list view by default")
	}
}

func TestService_NotifiesIndependentSubscribers(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	var a, b recorder
	unsubA := svc.Subscribe(a.listen)
	svc.Subscribe(b.listen)

	if _, err := svc.CreateFolder("Study"); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	unsubA()
	unsubA()
	svc.SetTodoCompleted(1, true)

	if got := a.kinds(); len(got) != 1 || got[0] != ChangeFolders {
		t.Fatalf("expected a to see one folders change, got %v", got)
	}
	if got := b.kinds(); len(got) != 2 || got[1] != ChangeTodos {
		t.Fatalf("expected b to see both changes, got %v", got)
	}

	// Snapshots are isolated from later mutations.
	first := b.changes[0].DB
	if len(first.Folders) != 3 {
		t.Fatalf("expected snapshot with 3 folders, got %d", len(first.Folders))
	}
	if td, _ := first.FindTodo(1); td.Completed {
		t.Fatalf("first snapshot must not observe the later completion")
	}
}

func TestService_RejectedMutationLeavesStateAndDoesNotNotify(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	var r recorder
	svc.Subscribe(r.listen)
	before := svc.Snapshot()

	_, err := svc.CreateFolder(" 업무 ")
	var ve mutate.ValidationError
	if !errors.As(err, &ve) || ve.Reason != mutate.ReasonDuplicateName {
		t.Fatalf("expected duplicate-name, got %v", err)
	}
	if _, err := svc.CreateFolder("개인"); err == nil {
		t.Fatalf("expected 개인 to be a duplicate of the default folder")
	}
	if err := svc.UpdateTodo(1, mutate.TodoPatch{Title: new(string)}); err == nil {
		t.Fatalf("expected empty-title error")
	}
	if len(r.kinds()) != 0 {
		t.Fatalf("rejected mutations must not notify, got %v", r.kinds())
	}
	after := svc.Snapshot()
	if len(after.Folders) != len(before.Folders) || after.Todos[0].Title != before.Todos[0].Title {
		t.Fatalf("state changed after rejected mutations")
	}

	// No-op mutations do not notify either.
	svc.DeleteFolder("fld-missing")
	svc.ReorderFolders(1, 1)
	if len(r.kinds()) != 0 {
		t.Fatalf("no-op mutations must not notify, got %v", r.kinds())
	}
}

func TestService_SelectionRepairedInSameChange(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	var r recorder
	svc.Subscribe(r.listen)

	if err := svc.SelectFolder("fld-work"); err != nil {
		t.Fatalf("SelectFolder: %v", err)
	}
	if err := svc.SelectCategory("cat-reports"); err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	res := svc.DeleteCategory("fld-work", "cat-reports")
	if !res.Changed || res.Todos != 1 {
		t.Fatalf("unexpected delete result %#v", res)
	}
	if got := svc.Selection().CategoryID; got != "" {
		t.Fatalf("expected category filter cleared, got %q", got)
	}
	last := r.changes[len(r.changes)-1]
	if last.Kind != ChangeCategories || last.Selection.CategoryID != "" {
		t.Fatalf("expected the delete change to carry the repaired selection, got %#v", last.Selection)
	}

	id := int64(3)
	if err := svc.SelectTodo(&id); err != nil {
		t.Fatalf("SelectTodo: %v", err)
	}
	if sel := svc.Selection(); sel.FolderID != "fld-personal" || sel.TodoID == nil {
		t.Fatalf("expected selection to follow the todo's folder, got %#v", sel)
	}
	svc.DeleteFolder("fld-personal")
	if sel := svc.Selection(); sel.TodoID != nil || sel.FolderID != "fld-work" {
		t.Fatalf("expected todo cleared and first folder selected, got %#v", sel)
	}
}

func TestService_SelectErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	var nf mutate.NotFoundError
	if err := svc.SelectFolder("nope"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := svc.SelectCategory("cat-errands"); !errors.As(err, &nf) {
		t.Fatalf("expected category of another folder to be rejected, got %v", err)
	}
	id := int64(404)
	if err := svc.SelectTodo(&id); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for unknown todo, got %v", err)
	}
	if err := svc.SelectTodo(nil); err != nil {
		t.Fatalf("SelectTodo(nil): %v", err)
	}
}

func TestService_ReplaceAndView(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	var r recorder
	svc.Subscribe(r.listen)

	svc.SelectView(ViewBoard)
	svc.SelectView(ViewBoard)
	db, _ := store.Decode([]byte(`{"folders":[{"id":"f1","name":"Only","categories":[]}],"todos":[]}`))
	svc.Replace(db)

	if got := r.kinds(); len(got) != 2 || got[0] != ChangeSelection || got[1] != ChangeReplaced {
		t.Fatalf("unexpected change kinds %v", got)
	}
	if svc.Selection().FolderID != "f1" {
		t.Fatalf("expected selection repaired onto the imported folder")
	}
	db.Folders[0].Name = "mutated"
	if svc.Snapshot().Folders[0].Name != "Only" {
		t.Fatalf("Replace must copy its input")
	}
}

func TestAutosave_PersistsAndRestores(t *testing.T) {
	t.Parallel()

	logger, _ := test.NewNullLogger()
	backend := store.NewMemoryBackend()
	p := store.NewPersistence(backend, "todos", logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc, rep := Open(ctx, p, logger)
	if !rep.UsedDefault {
		t.Fatalf("expected default store on first open")
	}
	saver := store.NewAutosaver(p)
	unsub := Autosave(svc, saver)
	defer unsub()

	f, err := svc.CreateFolder("Study")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if err := svc.SelectFolder(f.ID); err != nil {
		t.Fatalf("SelectFolder: %v", err)
	}
	svc.SelectView(ViewBoard)
	if err := saver.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, rep := Open(ctx, p, logger)
	if rep.UsedDefault {
		t.Fatalf("expected saved document on reopen: %#v", rep)
	}
	if _, ok := reopened.Snapshot().FindFolder(f.ID); !ok {
		t.Fatalf("expected folder persisted")
	}
	if reopened.Selection().FolderID != f.ID || reopened.View() != ViewBoard {
		t.Fatalf("expected selection and view restored, got %#v / %s", reopened.Selection(), reopened.View())
	}
}
