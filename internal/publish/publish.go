// Package publish writes todos and folders out as plain markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gtodo-cli/internal/store"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

func WriteTodo(db *store.DB, todoID int64, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderTodoMarkdown(db, todoID)
	if err != nil {
		return WriteResult{}, err
	}

	outDir := filepath.Join(toDir, "todos")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, strconv.FormatInt(todoID, 10)+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteFolder writes folders/<id>/index.md plus one page per todo under folders/<id>/todos.
func WriteFolder(db *store.DB, folderID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return WriteResult{}, errors.New("missing folderID")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	indexMD, err := RenderFolderIndexMarkdown(db, folderID)
	if err != nil {
		return WriteResult{}, err
	}

	folderDir := filepath.Join(toDir, "folders", folderID)
	todosDir := filepath.Join(folderDir, "todos")
	if err := os.MkdirAll(todosDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(folderDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first failing page.
	written := []string{indexPath}
	for _, t := range db.TodosOf(folderID, "") {
		md, err := RenderTodoMarkdown(db, t.ID)
		if err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(todosDir, strconv.FormatInt(t.ID, 10)+".md")
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}

	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
