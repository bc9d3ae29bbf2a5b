package command

import (
	"fmt"

	"gtodo-cli/internal/store"
)

// Confirm is the pending delete confirmation. Body names what the cascade removes.
type Confirm struct {
	Target Target
	Title  string
	Body   string
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// NewConfirm describes deleting t against db. It reports false when t does not resolve.
func NewConfirm(db *store.DB, t Target) (Confirm, bool) {
	switch t := t.(type) {
	case FolderTarget:
		f, ok := db.FindFolder(t.FolderID)
		if !ok {
			return Confirm{}, false
		}
		return Confirm{
			Target: t,
			Title:  "Delete folder?",
			Body: fmt.Sprintf("Deletes folder %q, its %s and %s.", f.Name,
				plural(len(f.Categories), "category", "categories"),
				plural(db.CountTodos(f.ID, ""), "todo", "todos")),
		}, true
	case CategoryTarget:
		c, ok := db.ResolveCategory(t.FolderID, t.CategoryID)
		if !ok {
			return Confirm{}, false
		}
		return Confirm{
			Target: t,
			Title:  "Delete category?",
			Body: fmt.Sprintf("Deletes category %q and its %s.", c.Name,
				plural(db.CountTodos(t.FolderID, t.CategoryID), "todo", "todos")),
		}, true
	case TodoTarget:
		td, ok := db.FindTodo(t.TodoID)
		if !ok {
			return Confirm{}, false
		}
		return Confirm{
			Target: t,
			Title:  "Delete todo?",
			Body:   fmt.Sprintf("Deletes todo %q.", td.Title),
		}, true
	default:
		return Confirm{}, false
	}
}
