package store

import (
	"strings"

	"gtodo-cli/internal/model"
)

// CurrentVersion is the document version written by Encode.
// Version 0 is the unversioned legacy shape (same fields, no "version" key).
const CurrentVersion = 1

// DB is the root aggregate: folders (owning their categories) plus the flat todo sequence.
// Todos reference folders and categories by id only.
type DB struct {
	Version int            `json:"version"`
	Folders []model.Folder `json:"folders"`
	Todos   []model.Todo   `json:"todos"`
}

func (db *DB) FindFolder(id string) (*model.Folder, bool) {
	if db == nil {
		return nil, false
	}
	for i := range db.Folders {
		if db.Folders[i].ID == id {
			return &db.Folders[i], true
		}
	}
	return nil, false
}

// FolderIndex returns the position of folder id, or -1.
func (db *DB) FolderIndex(id string) int {
	if db == nil {
		return -1
	}
	for i := range db.Folders {
		if db.Folders[i].ID == id {
			return i
		}
	}
	return -1
}

// CategoryIndex returns the position of categoryID within folderID, or -1.
func (db *DB) CategoryIndex(folderID, categoryID string) int {
	f, ok := db.FindFolder(folderID)
	if !ok {
		return -1
	}
	for i := range f.Categories {
		if f.Categories[i].ID == categoryID {
			return i
		}
	}
	return -1
}

// ResolveCategory finds the category categoryID inside folderID.
func (db *DB) ResolveCategory(folderID, categoryID string) (*model.Category, bool) {
	f, ok := db.FindFolder(folderID)
	if !ok {
		return nil, false
	}
	for i := range f.Categories {
		if f.Categories[i].ID == categoryID {
			return &f.Categories[i], true
		}
	}
	return nil, false
}

func (db *DB) FindTodo(id int64) (*model.Todo, bool) {
	if db == nil {
		return nil, false
	}
	for i := range db.Todos {
		if db.Todos[i].ID == id {
			return &db.Todos[i], true
		}
	}
	return nil, false
}

// TodoIndex returns the position of todo id in the flat sequence, or -1.
func (db *DB) TodoIndex(id int64) int {
	if db == nil {
		return -1
	}
	for i := range db.Todos {
		if db.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

// TodosOf returns the todos of folderID in store order. An empty categoryID returns
// every todo of the folder ("all categories").
func (db *DB) TodosOf(folderID, categoryID string) []model.Todo {
	if db == nil {
		return nil
	}
	out := make([]model.Todo, 0)
	for _, t := range db.Todos {
		if t.FolderID != folderID {
			continue
		}
		if categoryID != "" && t.CategoryID != categoryID {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CountTodos returns how many todos reference folderID (and categoryID when non-empty).
func (db *DB) CountTodos(folderID, categoryID string) int {
	n := 0
	if db == nil {
		return 0
	}
	for _, t := range db.Todos {
		if t.FolderID == folderID && (categoryID == "" || t.CategoryID == categoryID) {
			n++
		}
	}
	return n
}

// MaxTodoID returns the largest todo id in the store (0 when empty).
func (db *DB) MaxTodoID() int64 {
	var max int64
	if db == nil {
		return 0
	}
	for _, t := range db.Todos {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// Clone returns a deep copy. Snapshots handed to subscribers are clones, so readers never
// observe later mutations.
func (db *DB) Clone() *DB {
	if db == nil {
		return nil
	}
	out := &DB{
		Version: db.Version,
		Folders: make([]model.Folder, len(db.Folders)),
		Todos:   make([]model.Todo, len(db.Todos)),
	}
	for i := range db.Folders {
		out.Folders[i] = db.Folders[i].Clone()
	}
	for i := range db.Todos {
		out.Todos[i] = db.Todos[i].Clone()
	}
	return out
}

// SameName reports whether two names collide under the sibling-uniqueness rule
// (trimmed, case-insensitive).
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
