package mutate

import (
	"strings"

	"gtodo-cli/internal/model"
	"gtodo-cli/internal/store"
)

type TodoInput struct {
	Title       string
	Description string
	FolderID    string
	CategoryID  string
	DueDate     *string
}

// TodoPatch merges into an existing todo. Nil fields are left alone; an empty DueDate clears it.
type TodoPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Completed   *bool
}

func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.Completed == nil
}

// normalizeDueDate returns nil for an empty value and rejects anything that is not a date.
func normalizeDueDate(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil, nil
	}
	d, ok := store.NormalizeDueDate(s)
	if !ok {
		return nil, ValidationError{Reason: ReasonInvalidDueDate, Kind: "todo", Value: s}
	}
	return &d, nil
}

func CreateTodo(db *store.DB, clock *store.TodoClock, in TodoInput) (model.Todo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Todo{}, ValidationError{Reason: ReasonEmptyTitle, Kind: "todo"}
	}
	if _, ok := db.FindFolder(in.FolderID); !ok {
		return model.Todo{}, NotFoundError{Kind: "folder", ID: in.FolderID}
	}
	if _, ok := db.ResolveCategory(in.FolderID, in.CategoryID); !ok {
		return model.Todo{}, NotFoundError{Kind: "category", ID: in.CategoryID}
	}
	due, err := normalizeDueDate(in.DueDate)
	if err != nil {
		return model.Todo{}, err
	}
	t := model.Todo{
		ID:          clock.Next(db),
		Title:       title,
		Description: in.Description,
		FolderID:    in.FolderID,
		CategoryID:  in.CategoryID,
		DueDate:     due,
	}
	db.Todos = append(db.Todos, t)
	return t, nil
}

// UpdateTodo reports whether anything changed. An unknown id is a no-op success.
func UpdateTodo(db *store.DB, id int64, p TodoPatch) (bool, error) {
	t, ok := db.FindTodo(id)
	if !ok {
		return false, nil
	}
	next := t.Clone()
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if strings.TrimSpace(next.Title) == "" {
		return false, ValidationError{Reason: ReasonEmptyTitle, Kind: "todo"}
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.DueDate != nil {
		due, err := normalizeDueDate(p.DueDate)
		if err != nil {
			return false, err
		}
		next.DueDate = due
	}
	if p.Completed != nil {
		next.Completed = *p.Completed
	}
	if sameTodo(*t, next) {
		return false, nil
	}
	*t = next
	return true, nil
}

func sameTodo(a, b model.Todo) bool {
	if a.Title != b.Title || a.Description != b.Description || a.Completed != b.Completed {
		return false
	}
	if (a.DueDate == nil) != (b.DueDate == nil) {
		return false
	}
	return a.DueDate == nil || *a.DueDate == *b.DueDate
}

// DeleteTodo is idempotent; it reports whether a todo was removed.
func DeleteTodo(db *store.DB, id int64) bool {
	idx := db.TodoIndex(id)
	if idx < 0 {
		return false
	}
	db.Todos = append(db.Todos[:idx], db.Todos[idx+1:]...)
	return true
}

// SetTodoCompleted is the narrow status flip used by toggles and the status board.
func SetTodoCompleted(db *store.DB, id int64, completed bool) bool {
	t, ok := db.FindTodo(id)
	if !ok || t.Completed == completed {
		return false
	}
	t.Completed = completed
	return true
}
