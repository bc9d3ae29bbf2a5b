package app

import (
	"strconv"

	"gtodo-cli/internal/mutate"
	"gtodo-cli/internal/selection"
)

// selectWith applies fn to the current selection, repairs it, and notifies when it moved.
func (s *Service) selectWith(fn func(sel *selection.Selection)) selection.Selection {
	s.mu.Lock()
	next := s.sel.Clone()
	fn(&next)
	next = selection.Repair(next, s.db)
	if next.Equal(s.sel) {
		s.mu.Unlock()
		return next
	}
	s.sel = next
	out := next.Clone()
	s.commit(ChangeSelection)
	return out
}

// SelectFolder focuses folderID and resets the category filter and open todo.
func (s *Service) SelectFolder(folderID string) error {
	if _, ok := s.Snapshot().FindFolder(folderID); !ok {
		return mutate.NotFoundError{Kind: "folder", ID: folderID}
	}
	s.selectWith(func(sel *selection.Selection) {
		if sel.FolderID != folderID {
			sel.CategoryID = ""
			sel.TodoID = nil
		}
		sel.FolderID = folderID
	})
	return nil
}

// SelectCategory sets the category filter of the selected folder; "" means all categories.
func (s *Service) SelectCategory(categoryID string) error {
	if categoryID != "" {
		sel := s.Selection()
		if _, ok := s.Snapshot().ResolveCategory(sel.FolderID, categoryID); !ok {
			return mutate.NotFoundError{Kind: "category", ID: categoryID}
		}
	}
	s.selectWith(func(sel *selection.Selection) {
		sel.CategoryID = categoryID
	})
	return nil
}

// SelectTodo opens todoID, or closes the open todo when todoID is nil. Selecting a todo
// outside the current filter moves the folder/category selection to it.
func (s *Service) SelectTodo(todoID *int64) error {
	if todoID == nil {
		s.selectWith(func(sel *selection.Selection) { sel.TodoID = nil })
		return nil
	}
	id := *todoID
	t, ok := s.Snapshot().FindTodo(id)
	if !ok {
		return mutate.NotFoundError{Kind: "todo", ID: formatTodoID(id)}
	}
	s.selectWith(func(sel *selection.Selection) {
		if sel.FolderID != t.FolderID {
			sel.FolderID = t.FolderID
			sel.CategoryID = ""
		}
		if sel.CategoryID != "" && sel.CategoryID != t.CategoryID {
			sel.CategoryID = ""
		}
		sel.TodoID = &id
	})
	return nil
}

// SelectView switches between the list and the status board.
func (s *Service) SelectView(v View) {
	if v != ViewBoard {
		v = ViewList
	}
	s.mu.Lock()
	if s.view == v {
		s.mu.Unlock()
		return
	}
	s.view = v
	s.commit(ChangeSelection)
}

func formatTodoID(id int64) string {
	return strconv.FormatInt(id, 10)
}
