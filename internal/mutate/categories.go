package mutate

import (
	"iter"

	"gtodo-cli/internal/model"
	"gtodo-cli/internal/store"
)

func categorySiblings(f *model.Folder) iter.Seq2[string, string] {
	return func(yield func(id, name string) bool) {
		for _, c := range f.Categories {
			if !yield(c.ID, c.Name) {
				return
			}
		}
	}
}

func CreateCategory(db *store.DB, folderID, name string) (model.Category, error) {
	f, ok := db.FindFolder(folderID)
	if !ok {
		return model.Category{}, NotFoundError{Kind: "folder", ID: folderID}
	}
	name, err := validateName("category", name, "", categorySiblings(f))
	if err != nil {
		return model.Category{}, err
	}
	c := model.Category{ID: store.NewCategoryID(f), Name: name}
	f.Categories = append(f.Categories, c)
	return c, nil
}

func RenameCategory(db *store.DB, folderID, categoryID, name string) (bool, error) {
	f, ok := db.FindFolder(folderID)
	if !ok {
		return false, NotFoundError{Kind: "folder", ID: folderID}
	}
	c, ok := db.ResolveCategory(folderID, categoryID)
	if !ok {
		return false, NotFoundError{Kind: "category", ID: categoryID}
	}
	name, err := validateName("category", name, c.ID, categorySiblings(f))
	if err != nil {
		return false, err
	}
	if c.Name == name {
		return false, nil
	}
	c.Name = name
	return true, nil
}

// DeleteCategory removes the category and every todo referencing (folderID, categoryID).
// A missing folder or category is a no-op.
func DeleteCategory(db *store.DB, folderID, categoryID string) DeleteResult {
	idx := db.CategoryIndex(folderID, categoryID)
	if idx < 0 {
		return DeleteResult{}
	}
	f, _ := db.FindFolder(folderID)
	res := DeleteResult{Changed: true, Name: f.Categories[idx].Name}

	kept := db.Todos[:0]
	for _, t := range db.Todos {
		if t.FolderID == folderID && t.CategoryID == categoryID {
			res.Todos++
			continue
		}
		kept = append(kept, t)
	}
	db.Todos = kept
	f.Categories = append(f.Categories[:idx], f.Categories[idx+1:]...)
	return res
}
