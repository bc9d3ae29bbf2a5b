package mutate

import (
	"iter"
	"strings"

	"gtodo-cli/internal/model"
	"gtodo-cli/internal/store"
)

// DeleteResult reports what a cascading delete removed.
type DeleteResult struct {
	Changed    bool
	Name       string
	Categories int
	Todos      int
}

// validateName trims name and checks it against the sibling names (skipping selfID).
func validateName(kind, name, selfID string, siblings iter.Seq2[string, string]) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ValidationError{Reason: ReasonEmptyName, Kind: kind}
	}
	for id, other := range siblings {
		if id != selfID && store.SameName(other, name) {
			return "", ValidationError{Reason: ReasonDuplicateName, Kind: kind, Value: name}
		}
	}
	return name, nil
}

func folderSiblings(db *store.DB) iter.Seq2[string, string] {
	return func(yield func(id, name string) bool) {
		for _, f := range db.Folders {
			if !yield(f.ID, f.Name) {
				return
			}
		}
	}
}

// CreateFolder appends a folder with no categories.
func CreateFolder(db *store.DB, name string) (model.Folder, error) {
	name, err := validateName("folder", name, "", folderSiblings(db))
	if err != nil {
		return model.Folder{}, err
	}
	f := model.Folder{
		ID:         store.NewFolderID(db),
		Name:       name,
		Categories: []model.Category{},
	}
	db.Folders = append(db.Folders, f)
	return f, nil
}

// RenameFolder reports whether the name changed. An unchanged name is a no-op.
func RenameFolder(db *store.DB, folderID, name string) (bool, error) {
	f, ok := db.FindFolder(folderID)
	if !ok {
		return false, NotFoundError{Kind: "folder", ID: folderID}
	}
	name, err := validateName("folder", name, f.ID, folderSiblings(db))
	if err != nil {
		return false, err
	}
	if f.Name == name {
		return false, nil
	}
	f.Name = name
	return true, nil
}

// DeleteFolder removes the folder, its categories, and every todo referencing it.
// Deleting a missing folder is a no-op.
func DeleteFolder(db *store.DB, folderID string) DeleteResult {
	idx := db.FolderIndex(folderID)
	if idx < 0 {
		return DeleteResult{}
	}
	f := db.Folders[idx]
	res := DeleteResult{Changed: true, Name: f.Name, Categories: len(f.Categories)}

	kept := db.Todos[:0]
	for _, t := range db.Todos {
		if t.FolderID == folderID {
			res.Todos++
			continue
		}
		kept = append(kept, t)
	}
	db.Todos = kept
	db.Folders = append(db.Folders[:idx], db.Folders[idx+1:]...)
	return res
}
