// Package app holds the authoritative in-memory store for a session and fans out
// change notifications to independent subscribers (autosave, views).
package app

import (
	"context"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"gtodo-cli/internal/model"
	"gtodo-cli/internal/mutate"
	"gtodo-cli/internal/selection"
	"gtodo-cli/internal/store"
)

type ChangeKind string

const (
	ChangeFolders    ChangeKind = "folders"
	ChangeCategories ChangeKind = "categories"
	ChangeTodos      ChangeKind = "todos"
	ChangeReorder    ChangeKind = "reorder"
	ChangeReplaced   ChangeKind = "replaced"
	ChangeSelection  ChangeKind = "selection"
)

// DataChanged is false for selection/view-only changes.
func (k ChangeKind) DataChanged() bool {
	return k != ChangeSelection
}

// View is which todo surface is showing: the plain list or the pending/done board.
type View string

const (
	ViewList  View = "list"
	ViewBoard View = "board"
)

// Change is delivered to subscribers after a mutation and its selection repair complete.
// DB is a snapshot shared by all subscribers of one change; treat it as read-only.
type Change struct {
	Kind      ChangeKind
	DB        *store.DB
	Selection selection.Selection
	View      View
}

type Listener func(Change)

type Service struct {
	mu    sync.Mutex
	db    *store.DB
	sel   selection.Selection
	view  View
	clock *store.TodoClock
	log   log.FieldLogger

	// notifyMu is taken before mu is released so listeners see changes in commit order.
	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// New wraps db (which must already be normalized) and repairs sel against it.
func New(db *store.DB, sel selection.Selection, logger log.FieldLogger) *Service {
	if db == nil {
		db = store.DefaultDB()
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{
		db:        db,
		sel:       selection.Repair(sel, db),
		view:      ViewList,
		clock:     &store.TodoClock{},
		log:       logger,
		listeners: map[int]Listener{},
	}
}

// Open loads the document and the last selection through p.
func Open(ctx context.Context, p *store.Persistence, logger log.FieldLogger) (*Service, store.Report) {
	db, rep := p.Load(ctx)
	st := store.LoadUIState(ctx, p.Backend, p.UIKey())
	svc := New(db, selection.FromUIState(st), logger)
	if st.Board {
		svc.view = ViewBoard
	}
	return svc, rep
}

// Subscribe registers fn for every later change. Listeners run synchronously on the
// mutating goroutine and must not call mutators themselves.
func (s *Service) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Snapshot returns a deep copy of the current store.
func (s *Service) Snapshot() *store.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Clone()
}

func (s *Service) Selection() selection.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clone()
}

func (s *Service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// commit publishes the current state to listeners. Called with mu held; releases it.
func (s *Service) commit(kind ChangeKind) {
	ch := Change{Kind: kind, DB: s.db.Clone(), Selection: s.sel.Clone(), View: s.view}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, fn := range fns {
		fn(ch)
	}
}

// apply runs fn against a clone and swaps it in only when fn succeeds with a change, so
// no partially applied mutation is ever visible.
func (s *Service) apply(kind ChangeKind, fn func(db *store.DB) (bool, error)) (bool, error) {
	s.mu.Lock()
	next := s.db.Clone()
	changed, err := fn(next)
	if err != nil {
		s.mu.Unlock()
		s.log.WithField("change", string(kind)).WithError(err).Debug("mutation rejected")
		return false, err
	}
	if !changed {
		s.mu.Unlock()
		return false, nil
	}
	s.db = next
	s.sel = selection.Repair(s.sel, next)
	s.commit(kind)
	return true, nil
}

func (s *Service) CreateFolder(name string) (model.Folder, error) {
	var f model.Folder
	_, err := s.apply(ChangeFolders, func(db *store.DB) (bool, error) {
		var err error
		f, err = mutate.CreateFolder(db, name)
		return err == nil, err
	})
	return f, err
}

func (s *Service) RenameFolder(folderID, name string) error {
	_, err := s.apply(ChangeFolders, func(db *store.DB) (bool, error) {
		return mutate.RenameFolder(db, folderID, name)
	})
	return err
}

// DeleteFolder is idempotent; the result reports what the cascade removed.
func (s *Service) DeleteFolder(folderID string) mutate.DeleteResult {
	var res mutate.DeleteResult
	_, _ = s.apply(ChangeFolders, func(db *store.DB) (bool, error) {
		res = mutate.DeleteFolder(db, folderID)
		return res.Changed, nil
	})
	return res
}

func (s *Service) CreateCategory(folderID, name string) (model.Category, error) {
	var c model.Category
	_, err := s.apply(ChangeCategories, func(db *store.DB) (bool, error) {
		var err error
		c, err = mutate.CreateCategory(db, folderID, name)
		return err == nil, err
	})
	return c, err
}

func (s *Service) RenameCategory(folderID, categoryID, name string) error {
	_, err := s.apply(ChangeCategories, func(db *store.DB) (bool, error) {
		return mutate.RenameCategory(db, folderID, categoryID, name)
	})
	return err
}

func (s *Service) DeleteCategory(folderID, categoryID string) mutate.DeleteResult {
	var res mutate.DeleteResult
	_, _ = s.apply(ChangeCategories, func(db *store.DB) (bool, error) {
		res = mutate.DeleteCategory(db, folderID, categoryID)
		return res.Changed, nil
	})
	return res
}

func (s *Service) CreateTodo(in mutate.TodoInput) (model.Todo, error) {
	var t model.Todo
	_, err := s.apply(ChangeTodos, func(db *store.DB) (bool, error) {
		var err error
		t, err = mutate.CreateTodo(db, s.clock, in)
		return err == nil, err
	})
	return t, err
}

func (s *Service) UpdateTodo(todoID int64, p mutate.TodoPatch) error {
	_, err := s.apply(ChangeTodos, func(db *store.DB) (bool, error) {
		return mutate.UpdateTodo(db, todoID, p)
	})
	return err
}

func (s *Service) DeleteTodo(todoID int64) bool {
	changed, _ := s.apply(ChangeTodos, func(db *store.DB) (bool, error) {
		return mutate.DeleteTodo(db, todoID), nil
	})
	return changed
}

func (s *Service) SetTodoCompleted(todoID int64, completed bool) bool {
	changed, _ := s.apply(ChangeTodos, func(db *store.DB) (bool, error) {
		return mutate.SetTodoCompleted(db, todoID, completed), nil
	})
	return changed
}

func (s *Service) ReorderFolders(oldIndex, newIndex int) bool {
	changed, _ := s.apply(ChangeReorder, func(db *store.DB) (bool, error) {
		return mutate.ReorderFolders(db, oldIndex, newIndex), nil
	})
	return changed
}

func (s *Service) ReorderCategories(folderID string, oldIndex, newIndex int) bool {
	changed, _ := s.apply(ChangeReorder, func(db *store.DB) (bool, error) {
		return mutate.ReorderCategories(db, folderID, oldIndex, newIndex), nil
	})
	return changed
}

func (s *Service) ReorderTodo(activeID, overID int64) bool {
	changed, _ := s.apply(ChangeReorder, func(db *store.DB) (bool, error) {
		return mutate.ReorderTodo(db, activeID, overID), nil
	})
	return changed
}

// Replace swaps in a whole normalized store (import).
func (s *Service) Replace(db *store.DB) {
	if db == nil {
		return
	}
	s.mu.Lock()
	s.db = db.Clone()
	s.sel = selection.Repair(s.sel, s.db)
	s.commit(ChangeReplaced)
}
