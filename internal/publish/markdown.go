package publish

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gtodo-cli/internal/model"
	"gtodo-cli/internal/store"
)

func RenderTodoMarkdown(db *store.DB, todoID int64) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	t, ok := db.FindTodo(todoID)
	if !ok {
		return "", fmt.Errorf("todo not found: %d", todoID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(t.Title))
	writeLn("")

	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + strconv.FormatInt(t.ID, 10))
	if f, ok := db.FindFolder(t.FolderID); ok {
		writeLn("- Folder: " + f.Name + " (" + f.ID + ")")
	} else {
		writeLn("- Folder: " + t.FolderID)
	}
	if c, ok := db.ResolveCategory(t.FolderID, t.CategoryID); ok {
		writeLn("- Category: " + c.Name + " (" + c.ID + ")")
	} else {
		writeLn("- Category: " + t.CategoryID)
	}
	writeLn("- Status: " + string(model.ColumnOf(*t)))
	if t.DueDate != nil && strings.TrimSpace(*t.DueDate) != "" {
		writeLn("- Due: " + strings.TrimSpace(*t.DueDate))
	}

	desc := strings.TrimSpace(t.Description)
	if desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}

	return buf.String(), nil
}

// RenderFolderIndexMarkdown lists a folder's todos grouped by category, in store order.
func RenderFolderIndexMarkdown(db *store.DB, folderID string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	f, ok := db.FindFolder(strings.TrimSpace(folderID))
	if !ok {
		return "", fmt.Errorf("folder not found: %s", folderID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + f.Name + " (" + f.ID + ")")
	for _, c := range f.Categories {
		writeLn("")
		writeLn("## " + c.Name)
		writeLn("")
		todos := db.TodosOf(f.ID, c.ID)
		if len(todos) == 0 {
			writeLn("_No todos._")
			continue
		}
		for _, t := range todos {
			renderTodoLine(&buf, t)
		}
	}
	return buf.String(), nil
}

func renderTodoLine(buf *bytes.Buffer, t model.Todo) {
	box := " "
	if t.Completed {
		box = "x"
	}
	due := ""
	if t.DueDate != nil {
		due = " (due " + *t.DueDate + ")"
	}
	fmt.Fprintf(buf, "- [%s] [%s](todos/%d.md)%s\n", box, strings.TrimSpace(t.Title), t.ID, due)
}
