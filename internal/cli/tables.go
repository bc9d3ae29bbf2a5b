package cli

import (
	"strconv"

	"github.com/fatih/color"

	"gtodo-cli/internal/model"
)

// These list types marshal as plain JSON arrays and render as tables for --format table.

type folderList []model.Folder

func (l folderList) Header() []string { return []string{"ID", "NAME", "CATEGORIES"} }

func (l folderList) Rows() [][]string {
	out := make([][]string, 0, len(l))
	for _, f := range l {
		out = append(out, []string{f.ID, f.Name, strconv.Itoa(len(f.Categories))})
	}
	return out
}

type categoryList []model.Category

func (l categoryList) Header() []string { return []string{"ID", "NAME"} }

func (l categoryList) Rows() [][]string {
	out := make([][]string, 0, len(l))
	for _, c := range l {
		out = append(out, []string{c.ID, c.Name})
	}
	return out
}

type todoList []model.Todo

func (l todoList) Header() []string {
	return []string{"ID", "STATUS", "TITLE", "DUE", "FOLDER", "CATEGORY"}
}

func (l todoList) Rows() [][]string {
	done := color.New(color.FgGreen)
	pending := color.New(color.FgHiYellow)
	out := make([][]string, 0, len(l))
	for _, t := range l {
		status := pending.Sprint(string(model.ColumnPending))
		if t.Completed {
			status = done.Sprint(string(model.ColumnDone))
		}
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
		}
		out = append(out, []string{
			strconv.FormatInt(t.ID, 10), status, t.Title, due, t.FolderID, t.CategoryID,
		})
	}
	return out
}
