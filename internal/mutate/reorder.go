package mutate

import "gtodo-cli/internal/store"

// Move removes the element at from and inserts it at to; everything between shifts by one.
// It reports false (and leaves s alone) when the indices are equal or out of range.
func Move[T any](s []T, from, to int) bool {
	if from == to || from < 0 || to < 0 || from >= len(s) || to >= len(s) {
		return false
	}
	v := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = v
	return true
}

func ReorderFolders(db *store.DB, oldIndex, newIndex int) bool {
	return Move(db.Folders, oldIndex, newIndex)
}

// ReorderCategories moves a category within one folder. An unknown folder is a no-op.
func ReorderCategories(db *store.DB, folderID string, oldIndex, newIndex int) bool {
	f, ok := db.FindFolder(folderID)
	if !ok {
		return false
	}
	return Move(f.Categories, oldIndex, newIndex)
}

// ReorderTodo moves activeID to overID's position in the flat todo sequence.
func ReorderTodo(db *store.DB, activeID, overID int64) bool {
	if activeID == overID {
		return false
	}
	from, to := db.TodoIndex(activeID), db.TodoIndex(overID)
	if from < 0 || to < 0 {
		return false
	}
	return Move(db.Todos, from, to)
}
