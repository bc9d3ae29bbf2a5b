package drag

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"gtodo-cli/internal/model"
	"gtodo-cli/internal/store"
)

type session struct {
	item Item

	// Completed value of the todo when the drag started; restored on rollback.
	origCompleted bool
}

// Engine runs at most one drag session at a time over a Board.
type Engine struct {
	board Board
	log   log.FieldLogger

	mu     sync.Mutex
	reg    map[int64]model.Column
	active *session
}

func NewEngine(b Board, logger log.FieldLogger) *Engine {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Engine{board: b, log: logger, reg: map[int64]model.Column{}}
}

// Register records the column a rendered todo currently sits in. It takes precedence
// over the todo's own completed flag when resolving containers.
func (e *Engine) Register(todoID int64, col model.Column) {
	if !col.Valid() {
		return
	}
	e.mu.Lock()
	e.reg[todoID] = col
	e.mu.Unlock()
}

// ResetRegistrations forgets every registration (views call it before re-rendering).
func (e *Engine) ResetRegistrations() {
	e.mu.Lock()
	e.reg = map[int64]model.Column{}
	e.mu.Unlock()
}

// Active returns the item being dragged, if any.
func (e *Engine) Active() (Item, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return Item{}, false
	}
	return e.active.item, true
}

func (e *Engine) Start(it Item) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		return ErrDragActive
	}
	db := e.board.Snapshot()
	s := &session{item: it}
	switch it.Kind {
	case KindFolder:
		if db.FolderIndex(it.FolderID) < 0 {
			return ErrUnknownItem
		}
	case KindCategory:
		if db.CategoryIndex(it.FolderID, it.CategoryID) < 0 {
			return ErrUnknownItem
		}
	case KindTodo:
		t, ok := db.FindTodo(it.TodoID)
		if !ok {
			return ErrUnknownItem
		}
		s.origCompleted = t.Completed
	default:
		return ErrUnknownItem
	}
	e.active = s
	e.log.WithField("item", it.String()).Debug("drag start")
	return nil
}

// Over reports the container under the pointer. For a todo crossing into the other
// column the status flip is applied immediately; list reorders wait for the drop.
func (e *Engine) Over(it Item, c Container) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkActive(it); err != nil {
		return err
	}
	if it.Kind != KindTodo || c.KeepStatus {
		return nil
	}
	db := e.board.Snapshot()
	target, ok := e.columnOf(db, c)
	if !ok {
		return nil
	}
	e.moveToColumn(db, it.TodoID, target)
	return nil
}

// End finishes the drag. A nil container means the item was released outside any valid
// target, which restores the pre-drag state.
func (e *Engine) End(it Item, c *Container) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkActive(it); err != nil {
		return OutcomeNoop, err
	}
	s := e.active
	e.active = nil

	var out Outcome
	switch it.Kind {
	case KindFolder:
		out = e.endFolder(it, c)
	case KindCategory:
		out = e.endCategory(it, c)
	case KindTodo:
		out = e.endTodo(s, c)
	}
	e.log.WithFields(log.Fields{"item": it.String(), "outcome": string(out)}).Debug("drag end")
	return out, nil
}

// Cancel aborts the active drag, if any, restoring the pre-drag state.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return
	}
	s := e.active
	e.active = nil
	if s.item.Kind == KindTodo {
		e.rollback(s)
	}
	e.log.WithField("item", s.item.String()).Debug("drag cancelled")
}

func (e *Engine) checkActive(it Item) error {
	if e.active == nil {
		return ErrNoDrag
	}
	if e.active.item != it {
		return ErrItemMismatch
	}
	return nil
}

func (e *Engine) endFolder(it Item, c *Container) Outcome {
	if c == nil || c.Over == nil || c.Over.Kind != KindFolder {
		return OutcomeNoop
	}
	db := e.board.Snapshot()
	from, to := db.FolderIndex(it.FolderID), db.FolderIndex(c.Over.FolderID)
	if from < 0 || to < 0 || from == to {
		return OutcomeNoop
	}
	if e.board.ReorderFolders(from, to) {
		return OutcomeReordered
	}
	return OutcomeNoop
}

func (e *Engine) endCategory(it Item, c *Container) Outcome {
	if c == nil || c.Over == nil || c.Over.Kind != KindCategory {
		return OutcomeNoop
	}
	// Categories only reorder within their own folder's list.
	if c.Over.FolderID != it.FolderID {
		e.log.WithFields(log.Fields{
			"item": it.String(),
			"over": c.Over.String(),
		}).Debug("cross-folder category drop ignored")
		return OutcomeIgnored
	}
	db := e.board.Snapshot()
	from := db.CategoryIndex(it.FolderID, it.CategoryID)
	to := db.CategoryIndex(it.FolderID, c.Over.CategoryID)
	if from < 0 || to < 0 || from == to {
		return OutcomeNoop
	}
	if e.board.ReorderCategories(it.FolderID, from, to) {
		return OutcomeReordered
	}
	return OutcomeNoop
}

func (e *Engine) endTodo(s *session, c *Container) Outcome {
	if c == nil {
		return e.rollback(s)
	}
	if c.KeepStatus {
		return e.endListTodo(s.item.TodoID, c)
	}
	db := e.board.Snapshot()
	target, ok := e.columnOf(db, *c)
	if !ok {
		return e.rollback(s)
	}
	id := s.item.TodoID
	if _, ok := db.FindTodo(id); !ok {
		return OutcomeNoop
	}
	e.moveToColumn(db, id, target)

	reordered := false
	if c.Over != nil && c.Over.Kind == KindTodo && c.Over.TodoID != id {
		if over, ok := db.FindTodo(c.Over.TodoID); ok && e.resolve(*over) == target {
			reordered = e.board.ReorderTodo(id, over.ID)
		}
	}
	switch {
	case target.Completed() != s.origCompleted:
		return OutcomeStatusChanged
	case reordered:
		return OutcomeReordered
	default:
		return OutcomeNoop
	}
}

func (e *Engine) endListTodo(id int64, c *Container) Outcome {
	if c.Over == nil || c.Over.Kind != KindTodo || c.Over.TodoID == id {
		return OutcomeNoop
	}
	if e.board.ReorderTodo(id, c.Over.TodoID) {
		return OutcomeReordered
	}
	return OutcomeNoop
}

func (e *Engine) rollback(s *session) Outcome {
	id := s.item.TodoID
	e.board.SetTodoCompleted(id, s.origCompleted)
	orig := model.ColumnPending
	if s.origCompleted {
		orig = model.ColumnDone
	}
	if _, ok := e.reg[id]; ok {
		e.reg[id] = orig
	}
	return OutcomeRolledBack
}

// moveToColumn flips the todo's status when target differs from where it currently sits.
func (e *Engine) moveToColumn(db *store.DB, todoID int64, target model.Column) {
	t, ok := db.FindTodo(todoID)
	if !ok {
		return
	}
	if e.resolve(*t) != target || t.Completed != target.Completed() {
		e.board.SetTodoCompleted(todoID, target.Completed())
	}
	e.reg[todoID] = target
}

// columnOf resolves the board column a container stands for: an explicit column first,
// then the column of the todo being hovered.
func (e *Engine) columnOf(db *store.DB, c Container) (model.Column, bool) {
	if c.Column.Valid() {
		return c.Column, true
	}
	if c.Over == nil || c.Over.Kind != KindTodo {
		return "", false
	}
	t, ok := db.FindTodo(c.Over.TodoID)
	if !ok {
		return "", false
	}
	return e.resolve(*t), true
}

// resolve returns the todo's column: its registration when present, otherwise its
// completed flag.
func (e *Engine) resolve(t model.Todo) model.Column {
	if col, ok := e.reg[t.ID]; ok {
		return col
	}
	return model.ColumnOf(t)
}
