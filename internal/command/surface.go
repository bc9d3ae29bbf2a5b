package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gtodo-cli/internal/model"
	"gtodo-cli/internal/mutate"
	"gtodo-cli/internal/store"
)

// Store is the mutation surface commands drive (implemented by app.Service).
type Store interface {
	Snapshot() *store.DB
	CreateFolder(name string) (model.Folder, error)
	RenameFolder(folderID, name string) error
	DeleteFolder(folderID string) mutate.DeleteResult
	CreateCategory(folderID, name string) (model.Category, error)
	RenameCategory(folderID, categoryID, name string) error
	DeleteCategory(folderID, categoryID string) mutate.DeleteResult
	CreateTodo(in mutate.TodoInput) (model.Todo, error)
	UpdateTodo(todoID int64, p mutate.TodoPatch) error
	DeleteTodo(todoID int64) bool
}

type Mode int

const (
	ModeNone Mode = iota
	ModeMenu
	ModeForm
	ModeConfirm
)

// Surface owns at most one open overlay (menu, form, or confirmation) at a time.
type Surface struct {
	store    Store
	notifier Notifier

	Viewport Size

	menu    *Menu
	form    *Form
	confirm *Confirm
}

func NewSurface(s Store, n Notifier) *Surface {
	if n == nil {
		n = NotifierFunc(func(Notice) {})
	}
	return &Surface{store: s, notifier: n}
}

func (s *Surface) Mode() Mode {
	switch {
	case s.menu != nil:
		return ModeMenu
	case s.form != nil:
		return ModeForm
	case s.confirm != nil:
		return ModeConfirm
	default:
		return ModeNone
	}
}

func (s *Surface) Menu() (*Menu, bool)       { return s.menu, s.menu != nil }
func (s *Surface) Form() (*Form, bool)       { return s.form, s.form != nil }
func (s *Surface) Confirm() (*Confirm, bool) { return s.confirm, s.confirm != nil }

// Close dismisses whatever is open (escape).
func (s *Surface) Close() {
	s.menu, s.form, s.confirm = nil, nil, nil
}

func (s *Surface) notify(level Level, format string, args ...any) {
	s.notifier.Notify(Notice{Level: level, Message: fmt.Sprintf(format, args...)})
}

// OpenMenu opens the context menu for t anchored at the pointer.
func (s *Surface) OpenMenu(t Target, at Point) {
	s.Close()
	m := newMenu(t, at, s.Viewport)
	s.menu = &m
}

// Click handles a primary click. A click outside an open menu closes it; a click on a
// menu row runs that action. It reports whether the menu consumed the click.
func (s *Surface) Click(p Point) bool {
	if s.menu == nil {
		return false
	}
	if a, ok := s.menu.ActionAt(p); ok {
		s.Choose(a)
		return true
	}
	if !s.menu.Contains(p) {
		s.menu = nil
		return false
	}
	return true
}

// Choose runs a menu action against the menu's target. The menu closes either way.
func (s *Surface) Choose(a Action) {
	if s.menu == nil {
		return
	}
	t := s.menu.Target
	s.menu = nil
	switch a {
	case ActionAddCategory:
		if ft, ok := t.(FolderTarget); ok {
			s.OpenForm(Form{Kind: FormCreateCategory, FolderID: ft.FolderID})
		}
	case ActionRename:
		s.openEdit(t)
	case ActionDelete:
		s.RequestDelete(t)
	}
}

// OpenEdit opens the rename form for a folder or category, or the edit form for a todo,
// prefilled with the current values.
func (s *Surface) OpenEdit(t Target) {
	s.Close()
	s.openEdit(t)
}

func (s *Surface) openEdit(t Target) {
	db := s.store.Snapshot()
	switch t := t.(type) {
	case FolderTarget:
		f, ok := db.FindFolder(t.FolderID)
		if !ok {
			s.notify(LevelError, "%v", mutate.NotFoundError{Kind: "folder", ID: t.FolderID})
			return
		}
		s.OpenForm(Form{Kind: FormRenameFolder, FolderID: f.ID, Input: f.Name})
	case CategoryTarget:
		c, ok := db.ResolveCategory(t.FolderID, t.CategoryID)
		if !ok {
			s.notify(LevelError, "%v", mutate.NotFoundError{Kind: "category", ID: t.CategoryID})
			return
		}
		s.OpenForm(Form{Kind: FormRenameCategory, FolderID: t.FolderID, CategoryID: c.ID, Input: c.Name})
	case TodoTarget:
		td, ok := db.FindTodo(t.TodoID)
		if !ok {
			s.notify(LevelError, "%v", todoNotFound(t.TodoID))
			return
		}
		f := Form{
			Kind:        FormEditTodo,
			TodoID:      td.ID,
			FolderID:    td.FolderID,
			CategoryID:  td.CategoryID,
			Input:       td.Title,
			Description: td.Description,
		}
		if td.DueDate != nil {
			f.DueDate = *td.DueDate
		}
		s.OpenForm(f)
	}
}

func todoNotFound(id int64) error {
	return mutate.NotFoundError{Kind: "todo", ID: strconv.FormatInt(id, 10)}
}

func (s *Surface) OpenForm(f Form) {
	s.Close()
	s.form = &f
}

// SetInput replaces the form's main input and clears a stale inline error.
func (s *Surface) SetInput(v string) {
	if s.form == nil {
		return
	}
	s.form.Input = v
	s.form.Err = ""
}

// Submit runs the open form and reports whether it closed.
// Validation errors stay inline; a missing target aborts the form with an error notice.
func (s *Surface) Submit() bool {
	f := s.form
	if f == nil || !f.CanSubmit() {
		return false
	}
	input := strings.TrimSpace(f.Input)
	msg, err := s.submit(f, input)
	if err != nil {
		var ve mutate.ValidationError
		if errors.As(err, &ve) {
			f.Err = ve.Error()
			return false
		}
		s.form = nil
		s.notify(LevelError, "%v", err)
		return true
	}
	s.form = nil
	s.notify(LevelSuccess, "%s", msg)
	return true
}

func (s *Surface) submit(f *Form, input string) (string, error) {
	switch f.Kind {
	case FormCreateFolder:
		created, err := s.store.CreateFolder(input)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created folder %q", created.Name), nil
	case FormRenameFolder:
		if err := s.store.RenameFolder(f.FolderID, input); err != nil {
			return "", err
		}
		return fmt.Sprintf("Renamed folder to %q", input), nil
	case FormCreateCategory:
		created, err := s.store.CreateCategory(f.FolderID, input)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created category %q", created.Name), nil
	case FormRenameCategory:
		if err := s.store.RenameCategory(f.FolderID, f.CategoryID, input); err != nil {
			return "", err
		}
		return fmt.Sprintf("Renamed category to %q", input), nil
	case FormCreateTodo:
		in := mutate.TodoInput{
			Title:       input,
			Description: strings.TrimSpace(f.Description),
			FolderID:    f.FolderID,
			CategoryID:  f.CategoryID,
		}
		if due := strings.TrimSpace(f.DueDate); due != "" {
			in.DueDate = &due
		}
		created, err := s.store.CreateTodo(in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created todo %q", created.Title), nil
	case FormEditTodo:
		// UpdateTodo treats an unknown id as a no-op, so a todo deleted while the form
		// was open has to be caught here.
		if _, ok := s.store.Snapshot().FindTodo(f.TodoID); !ok {
			return "", todoNotFound(f.TodoID)
		}
		desc := strings.TrimSpace(f.Description)
		due := strings.TrimSpace(f.DueDate)
		p := mutate.TodoPatch{Title: &input, Description: &desc, DueDate: &due}
		if err := s.store.UpdateTodo(f.TodoID, p); err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated todo %q", input), nil
	default:
		return "", fmt.Errorf("unknown form: %s", f.Kind)
	}
}

// RequestDelete opens the confirmation step for t.
func (s *Surface) RequestDelete(t Target) {
	c, ok := NewConfirm(s.store.Snapshot(), t)
	if !ok {
		s.Close()
		s.notify(LevelError, "%s not found", t.Kind())
		return
	}
	s.Close()
	s.confirm = &c
}

// ConfirmDelete performs the pending delete.
func (s *Surface) ConfirmDelete() {
	c := s.confirm
	if c == nil {
		return
	}
	s.confirm = nil
	switch t := c.Target.(type) {
	case FolderTarget:
		res := s.store.DeleteFolder(t.FolderID)
		if res.Changed {
			s.notify(LevelSuccess, "Deleted folder %q (%s, %s)", res.Name,
				plural(res.Categories, "category", "categories"), plural(res.Todos, "todo", "todos"))
		}
	case CategoryTarget:
		res := s.store.DeleteCategory(t.FolderID, t.CategoryID)
		if res.Changed {
			s.notify(LevelSuccess, "Deleted category %q (%s)", res.Name, plural(res.Todos, "todo", "todos"))
		}
	case TodoTarget:
		if s.store.DeleteTodo(t.TodoID) {
			s.notify(LevelSuccess, "Deleted todo")
		}
	}
}
