package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"gtodo-cli/internal/app"
	"gtodo-cli/internal/command"
	"gtodo-cli/internal/drag"
	"gtodo-cli/internal/model"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	bodyH := m.bodyHeight()
	sideW := m.sidebarWidth()

	divider := strings.TrimSuffix(strings.Repeat(lipgloss.NewStyle().Foreground(colorBorder).Render("│")+"\n", bodyH+1), "\n")
	side := normalizePane(m.renderSidebar(bodyH), sideW, bodyH+1)
	main := normalizePane(m.renderMain(bodyH), m.mainWidth(), bodyH+1)
	body := lipgloss.JoinHorizontal(lipgloss.Top, side, divider, main)

	out := strings.Join([]string{
		fitWidth(m.renderHeader(), m.width),
		body,
		fitWidth(m.renderFlash(), m.width),
		fitWidth(styleMuted().Render(m.renderHelp()), m.width),
	}, "\n")

	switch m.surface.Mode() {
	case command.ModeMenu:
		if menu, ok := m.surface.Menu(); ok {
			out = overlayAt(out, renderMenu(menu), menu.Pos.X, menu.Pos.Y)
		}
	case command.ModeForm:
		if f, ok := m.surface.Form(); ok {
			out = m.overlayCentered(out, m.renderForm(f))
		}
	case command.ModeConfirm:
		if c, ok := m.surface.Confirm(); ok {
			out = m.overlayCentered(out, renderConfirm(c))
		}
	}
	return out
}

func (m appModel) renderHeader() string {
	crumb := "gtodo"
	if f, ok := m.db.FindFolder(m.sel.FolderID); ok {
		crumb += " › " + f.Name
		if c, ok := m.db.ResolveCategory(f.ID, m.sel.CategoryID); ok {
			crumb += " › " + c.Name
		} else {
			crumb += " › All"
		}
	}
	view := "list"
	if m.view == app.ViewBoard {
		view = "board"
	}
	return styleTitle().Render(crumb) + styleMuted().Render("  ["+view+"]")
}

func (m appModel) paneTitle(s string, focused bool) string {
	st := styleMuted()
	if focused {
		st = styleTitle()
	}
	return st.Render(s)
}

func (m appModel) renderSidebar(bodyH int) string {
	lines := []string{m.paneTitle("Folders", m.focus == paneSidebar)}
	rows := m.sideRows()
	start := scrollStart(m.sideCursor, bodyH)
	w := m.sidebarWidth()
	for i := start; i < len(rows) && i < start+bodyH; i++ {
		r := rows[i]
		label := r.label
		if r.categoryID == "" {
			n := m.db.CountTodos(r.folderID, "")
			label = fmt.Sprintf("▸ %s (%d)", r.label, n)
		} else {
			label = "    " + label
		}
		label = fitWidth(label, w)
		selected := r.folderID == m.sel.FolderID && r.categoryID == m.sel.CategoryID
		switch {
		case m.isDragging(r.folderID, r.categoryID):
			label = styleDragging().Render(label)
		case m.focus == paneSidebar && i == m.sideCursor:
			label = styleSelected().Render(label)
		case selected:
			label = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label)
		}
		lines = append(lines, label)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) isDragging(folderID, categoryID string) bool {
	if m.dragging == nil {
		return false
	}
	if categoryID == "" {
		return m.dragging.Kind == drag.KindFolder && m.dragging.FolderID == folderID
	}
	return m.dragging.Kind == drag.KindCategory && m.dragging.FolderID == folderID && m.dragging.CategoryID == categoryID
}

func (m appModel) renderMain(bodyH int) string {
	if m.detailOpen() {
		return m.renderDetail()
	}
	if m.sel.FolderID == "" {
		return m.paneTitle("Todos", false) + "\n" + styleMuted().Render("No folders yet. Press N to create one.")
	}
	if m.view == app.ViewBoard {
		return m.renderBoard(bodyH)
	}

	lines := []string{m.paneTitle("Todos", m.focus == paneTodos)}
	todos := m.visibleTodos()
	if len(todos) == 0 {
		lines = append(lines, styleMuted().Render("No todos. Press n to add one."))
	}
	start := scrollStart(m.todoCursor, bodyH)
	for i := start; i < len(todos) && i < start+bodyH; i++ {
		lines = append(lines, m.renderTodoRow(todos[i], m.mainWidth(), i == m.todoCursor))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderBoard(bodyH int) string {
	cw := m.boardColWidth()
	cols := make([]string, 0, 2)
	for _, col := range []model.Column{model.ColumnPending, model.ColumnDone} {
		todos := m.columnTodos(col)
		title := fmt.Sprintf("Pending (%d)", len(todos))
		if col == model.ColumnDone {
			title = fmt.Sprintf("Done (%d)", len(todos))
		}
		lines := []string{m.paneTitle(title, m.focus == paneTodos && m.boardCol == col)}
		start := 0
		if col == m.boardCol {
			start = scrollStart(m.todoCursor, bodyH)
		}
		for i := start; i < len(todos) && i < start+bodyH; i++ {
			focused := col == m.boardCol && i == m.todoCursor
			lines = append(lines, m.renderTodoRow(todos[i], cw-1, focused))
		}
		cols = append(cols, normalizePane(strings.Join(lines, "\n"), cw, bodyH+1))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m appModel) renderTodoRow(t model.Todo, width int, focused bool) string {
	mark := lipgloss.NewStyle().Foreground(colorPending).Render("[ ]")
	if t.Completed {
		mark = lipgloss.NewStyle().Foreground(colorDone).Render("[x]")
	}
	title := t.Title
	if t.DueDate != nil {
		title += "  " + styleMuted().Render(*t.DueDate)
	}
	if m.sel.CategoryID == "" {
		if c, ok := m.db.ResolveCategory(t.FolderID, t.CategoryID); ok {
			title += "  " + styleMuted().Render("#"+c.Name)
		}
	}
	ln := fitWidth(mark+" "+title, width)
	switch {
	case m.dragging != nil && m.dragging.Kind == drag.KindTodo && m.dragging.TodoID == t.ID:
		return styleDragging().Render(xansi.Strip(ln))
	case focused && m.focus == paneTodos:
		return styleSelected().Render(xansi.Strip(ln))
	}
	return ln
}

func (m appModel) renderDetail() string {
	t, _ := m.db.FindTodo(*m.sel.TodoID)
	w := m.mainWidth()
	status := lipgloss.NewStyle().Foreground(colorPending).Render("pending")
	if t.Completed {
		status = lipgloss.NewStyle().Foreground(colorDone).Render("done")
	}
	lines := []string{
		styleTitle().Render(t.Title),
		"",
		styleMuted().Render("Status    ") + status,
	}
	if c, ok := m.db.ResolveCategory(t.FolderID, t.CategoryID); ok {
		lines = append(lines, styleMuted().Render("Category  ")+c.Name)
	}
	due := "none"
	if t.DueDate != nil {
		due = *t.DueDate
	}
	lines = append(lines, styleMuted().Render("Due       ")+due, "")
	if desc := renderMarkdown(t.Description, w-2); desc != "" {
		lines = append(lines, desc)
	} else {
		lines = append(lines, styleMuted().Render("No description."))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderFlash() string {
	n := m.flash.notice
	if n.Message == "" {
		if m.dragging != nil {
			return styleMuted().Render("Dragging " + m.dragging.String())
		}
		return ""
	}
	switch n.Level {
	case command.LevelError:
		return lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorFlashErrorBg).Render(" " + n.Message + " ")
	case command.LevelSuccess:
		return lipgloss.NewStyle().Foreground(colorFlashSuccessFg).Render(n.Message)
	default:
		return n.Message
	}
}

func (m appModel) renderHelp() string {
	switch {
	case m.dragging != nil && m.keyDrag:
		return "↑/↓ ←/→: move   enter: drop   esc: cancel"
	case m.detailOpen():
		return helpLine(keys.Back, keys.Edit, keys.Toggle, keys.ToggleView, keys.Quit)
	}
	return helpLine(keys.SwitchPane, keys.Open, keys.ToggleView, keys.Toggle, keys.NewTodo,
		keys.NewFolder, keys.NewCat, keys.Rename, keys.Edit, keys.Delete, keys.Move, keys.Menu, keys.Quit)
}

// overlayAt splices box over base with its top-left cell at (x, y).
func overlayAt(base, box string, x, y int) string {
	lines := strings.Split(base, "\n")
	for i, bl := range strings.Split(box, "\n") {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		ln := lines[row]
		w := xansi.StringWidth(ln)
		if w < x {
			ln += strings.Repeat(" ", x-w)
			w = x
		}
		bw := xansi.StringWidth(bl)
		right := ""
		if x+bw < w {
			right = xansi.Cut(ln, x+bw, w)
		}
		lines[row] = xansi.Cut(ln, 0, x) + bl + right
	}
	return strings.Join(lines, "\n")
}

func (m appModel) overlayCentered(base, box string) string {
	bw := lipgloss.Width(box)
	bh := lipgloss.Height(box)
	x := (m.width - bw) / 2
	y := (m.height - bh) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return overlayAt(base, box, x, y)
}
