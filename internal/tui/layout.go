package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"gtodo-cli/internal/app"
	"gtodo-cli/internal/command"
	"gtodo-cli/internal/drag"
	"gtodo-cli/internal/model"
)

// Screen rows: header, pane titles, body..., flash, help.
const (
	headerRows = 2
	footerRows = 2
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall. This makes split-pane rendering stable when using lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		lines[i] = fitWidth(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth truncates (with an ellipsis) or pads ln to exactly width cells.
func fitWidth(ln string, width int) string {
	w := xansi.StringWidth(ln)
	if w > width {
		switch {
		case width <= 0:
			ln = ""
		case width == 1:
			ln = xansi.Cut(ln, 0, 1)
		default:
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// sideRow is one sidebar line: a folder, or a category when categoryID is set.
type sideRow struct {
	folderID   string
	categoryID string
	label      string
}

func (m appModel) sideRows() []sideRow {
	if m.db == nil {
		return nil
	}
	rows := make([]sideRow, 0, len(m.db.Folders)*3)
	for _, f := range m.db.Folders {
		rows = append(rows, sideRow{folderID: f.ID, label: f.Name})
		for _, c := range f.Categories {
			rows = append(rows, sideRow{folderID: f.ID, categoryID: c.ID, label: c.Name})
		}
	}
	return rows
}

// selectedSideRow is the sidebar index of the current selection (category when filtered).
func (m appModel) selectedSideRow() int {
	for i, r := range m.sideRows() {
		if r.folderID == m.sel.FolderID && r.categoryID == m.sel.CategoryID {
			return i
		}
	}
	return 0
}

// visibleTodos are the todos of the selected folder under the category filter, in store order.
func (m appModel) visibleTodos() []model.Todo {
	if m.sel.FolderID == "" {
		return nil
	}
	return m.db.TodosOf(m.sel.FolderID, m.sel.CategoryID)
}

func (m appModel) columnTodos(col model.Column) []model.Todo {
	out := make([]model.Todo, 0)
	for _, t := range m.visibleTodos() {
		if model.ColumnOf(t) == col {
			out = append(out, t)
		}
	}
	return out
}

// cursorTodos is the list the todo cursor moves through: every visible todo in list view,
// the focused column on the board.
func (m appModel) cursorTodos() []model.Todo {
	if m.view == app.ViewBoard {
		return m.columnTodos(m.boardCol)
	}
	return m.visibleTodos()
}

func (m appModel) sidebarWidth() int {
	w := m.width / 3
	if w < 16 {
		w = 16
	}
	if w > 32 {
		w = 32
	}
	return w
}

func (m appModel) mainX0() int { return m.sidebarWidth() + 1 }

func (m appModel) mainWidth() int {
	if w := m.width - m.mainX0(); w > 0 {
		return w
	}
	return 0
}

func (m appModel) bodyHeight() int {
	if h := m.height - headerRows - footerRows; h > 0 {
		return h
	}
	return 0
}

func (m appModel) boardColWidth() int { return m.mainWidth() / 2 }

// scrollStart keeps the cursor on screen: rows scroll only once the cursor passes the bottom.
func scrollStart(cursor, height int) int {
	if height <= 0 || cursor < height {
		return 0
	}
	return cursor - height + 1
}

func (m appModel) detailOpen() bool {
	if m.sel.TodoID == nil {
		return false
	}
	_, ok := m.db.FindTodo(*m.sel.TodoID)
	return ok
}

type hitKind int

const (
	hitNone hitKind = iota
	hitFolder
	hitCategory
	hitTodo
	hitColumn
)

// hit is what sits under a screen cell.
type hit struct {
	kind       hitKind
	folderID   string
	categoryID string
	todoID     int64
	column     model.Column
}

func (h hit) target() (command.Target, bool) {
	switch h.kind {
	case hitFolder:
		return command.FolderTarget{FolderID: h.folderID}, true
	case hitCategory:
		return command.CategoryTarget{FolderID: h.folderID, CategoryID: h.categoryID}, true
	case hitTodo:
		return command.TodoTarget{TodoID: h.todoID}, true
	default:
		return nil, false
	}
}

func (h hit) dragItem() (drag.Item, bool) {
	switch h.kind {
	case hitFolder:
		return drag.FolderItem(h.folderID), true
	case hitCategory:
		return drag.CategoryItem(h.folderID, h.categoryID), true
	case hitTodo:
		return drag.TodoItem(h.todoID), true
	default:
		return drag.Item{}, false
	}
}

func (m appModel) hitTest(x, y int) hit {
	top := headerRows
	bodyH := m.bodyHeight()
	if y < top || y >= top+bodyH || x < 0 || x >= m.width {
		return hit{}
	}
	row := y - top

	if x < m.sidebarWidth() {
		rows := m.sideRows()
		i := scrollStart(m.sideCursor, bodyH) + row
		if i >= len(rows) {
			return hit{}
		}
		r := rows[i]
		if r.categoryID == "" {
			return hit{kind: hitFolder, folderID: r.folderID}
		}
		return hit{kind: hitCategory, folderID: r.folderID, categoryID: r.categoryID}
	}
	if x < m.mainX0() || m.detailOpen() {
		return hit{}
	}

	if m.view == app.ViewBoard {
		col := model.ColumnPending
		if x >= m.mainX0()+m.boardColWidth() {
			col = model.ColumnDone
		}
		todos := m.columnTodos(col)
		start := 0
		if col == m.boardCol {
			start = scrollStart(m.todoCursor, bodyH)
		}
		if i := start + row; i < len(todos) {
			return hit{kind: hitTodo, todoID: todos[i].ID, column: col}
		}
		return hit{kind: hitColumn, column: col}
	}

	todos := m.visibleTodos()
	if i := scrollStart(m.todoCursor, bodyH) + row; i < len(todos) {
		return hit{kind: hitTodo, todoID: todos[i].ID, column: model.ColumnOf(todos[i])}
	}
	return hit{}
}

// containerFor maps what is under the pointer (or cursor) to a drop container for the
// active drag item. A nil container means there is no valid target there.
func (m appModel) containerFor(it drag.Item, h hit) *drag.Container {
	switch it.Kind {
	case drag.KindFolder:
		// Any sidebar row drops onto its folder.
		if h.kind == hitFolder || h.kind == hitCategory {
			return drag.OverItem(drag.FolderItem(h.folderID))
		}
	case drag.KindCategory:
		if h.kind == hitCategory {
			return drag.OverItem(drag.CategoryItem(h.folderID, h.categoryID))
		}
	case drag.KindTodo:
		if m.view != app.ViewBoard {
			if h.kind != hitTodo {
				return nil
			}
			return drag.InList(h.todoID)
		}
		switch h.kind {
		case hitTodo:
			c := drag.OverItem(drag.TodoItem(h.todoID))
			c.Column = h.column
			return c
		case hitColumn:
			return drag.OverColumn(h.column)
		}
	}
	return nil
}

// cursorHit is the keyboard equivalent of hitTest: the row under the focused cursor.
func (m appModel) cursorHit() hit {
	if m.focus == paneSidebar {
		rows := m.sideRows()
		if m.sideCursor >= len(rows) {
			return hit{}
		}
		r := rows[m.sideCursor]
		if r.categoryID == "" {
			return hit{kind: hitFolder, folderID: r.folderID}
		}
		return hit{kind: hitCategory, folderID: r.folderID, categoryID: r.categoryID}
	}
	todos := m.cursorTodos()
	if m.todoCursor >= len(todos) {
		if m.view == app.ViewBoard {
			return hit{kind: hitColumn, column: m.boardCol}
		}
		return hit{}
	}
	t := todos[m.todoCursor]
	col := model.ColumnOf(t)
	if m.view == app.ViewBoard {
		col = m.boardCol
	}
	return hit{kind: hitTodo, todoID: t.ID, column: col}
}

// focusedPoint is where a keyboard-opened menu anchors: just right of the focused row.
func (m appModel) focusedPoint() command.Point {
	bodyH := m.bodyHeight()
	if m.focus == paneSidebar {
		return command.Point{X: 2, Y: headerRows + m.sideCursor - scrollStart(m.sideCursor, bodyH) + 1}
	}
	x := m.mainX0() + 2
	if m.view == app.ViewBoard && m.boardCol == model.ColumnDone {
		x += m.boardColWidth()
	}
	return command.Point{X: x, Y: headerRows + m.todoCursor - scrollStart(m.todoCursor, bodyH) + 1}
}

func (m appModel) focusedTarget() (command.Target, bool) {
	return m.cursorHit().target()
}

func (m appModel) focusedDragItem() (drag.Item, bool) {
	return m.cursorHit().dragItem()
}

func (m appModel) focusedTodo() (model.Todo, bool) {
	if m.focus != paneTodos {
		if m.detailOpen() {
			t, _ := m.db.FindTodo(*m.sel.TodoID)
			return *t, true
		}
		return model.Todo{}, false
	}
	todos := m.cursorTodos()
	if m.todoCursor >= len(todos) {
		return model.Todo{}, false
	}
	return todos[m.todoCursor], true
}
