// Package selection tracks the current folder, category filter, and todo, and repairs
// them after every store change.
package selection

import "gtodo-cli/internal/store"

// Selection is what the views are currently focused on. An empty CategoryID means
// "all categories of the folder"; a nil TodoID means no todo is open.
type Selection struct {
	FolderID   string `json:"folderId"`
	CategoryID string `json:"categoryId"`
	TodoID     *int64 `json:"todoId"`
}

func (s Selection) Equal(o Selection) bool {
	if s.FolderID != o.FolderID || s.CategoryID != o.CategoryID {
		return false
	}
	if (s.TodoID == nil) != (o.TodoID == nil) {
		return false
	}
	return s.TodoID == nil || *s.TodoID == *o.TodoID
}

func (s Selection) Clone() Selection {
	out := s
	if s.TodoID != nil {
		id := *s.TodoID
		out.TodoID = &id
	}
	return out
}

// Repair returns prev adjusted so that every id it carries resolves in db:
// a missing folder falls back to the first folder (or none), a missing category clears
// the filter, and a todo that is gone or outside the folder/category filter is cleared.
func Repair(prev Selection, db *store.DB) Selection {
	next := prev.Clone()

	if _, ok := db.FindFolder(next.FolderID); !ok {
		next.FolderID = ""
		if db != nil && len(db.Folders) > 0 {
			next.FolderID = db.Folders[0].ID
		}
	}
	if next.CategoryID != "" {
		if _, ok := db.ResolveCategory(next.FolderID, next.CategoryID); !ok {
			next.CategoryID = ""
		}
	}
	if next.TodoID != nil {
		t, ok := db.FindTodo(*next.TodoID)
		if !ok || t.FolderID != next.FolderID || (next.CategoryID != "" && t.CategoryID != next.CategoryID) {
			next.TodoID = nil
		}
	}
	return next
}

func FromUIState(st store.UIState) Selection {
	s := Selection{FolderID: st.FolderID, CategoryID: st.CategoryID}
	if st.TodoID != nil {
		id := *st.TodoID
		s.TodoID = &id
	}
	return s
}

func (s Selection) UIState(board bool) store.UIState {
	c := s.Clone()
	return store.UIState{FolderID: c.FolderID, CategoryID: c.CategoryID, TodoID: c.TodoID, Board: board}
}
