package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"gtodo-cli/internal/app"
	"gtodo-cli/internal/command"
	"gtodo-cli/internal/drag"
	"gtodo-cli/internal/model"
)

func (m *appModel) handleMouse(msg tea.MouseMsg) {
	p := command.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonRight:
			m.rightPress(p)
		case tea.MouseButtonLeft:
			m.leftPress(p)
		}
	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonLeft {
			m.pointerMoved(p)
		}
	case tea.MouseActionRelease:
		m.release(p)
	}
}

func (m *appModel) rightPress(p command.Point) {
	if mode := m.surface.Mode(); mode == command.ModeForm || mode == command.ModeConfirm {
		return
	}
	if m.dragging != nil {
		return
	}
	t, ok := m.hitTest(p.X, p.Y).target()
	if !ok {
		m.surface.Close()
		return
	}
	m.surface.OpenMenu(t, p)
}

func (m *appModel) leftPress(p command.Point) {
	switch m.surface.Mode() {
	case command.ModeMenu:
		m.surface.Click(p)
		return
	case command.ModeForm, command.ModeConfirm:
		return
	}
	if m.dragging != nil {
		return
	}

	h := m.hitTest(p.X, p.Y)
	switch h.kind {
	case hitFolder, hitCategory:
		m.focus = paneSidebar
		for i, r := range m.sideRows() {
			if r.folderID == h.folderID && r.categoryID == h.categoryID {
				m.sideCursor = i
				break
			}
		}
		m.selectSideRow(sideRow{folderID: h.folderID, categoryID: h.categoryID})
	case hitTodo:
		m.focus = paneTodos
		if m.view == app.ViewBoard {
			m.boardCol = h.column
		}
		for i, t := range m.cursorTodos() {
			if t.ID == h.todoID {
				m.todoCursor = i
				break
			}
		}
	case hitColumn:
		m.focus = paneTodos
		m.boardCol = h.column
	}

	if it, ok := h.dragItem(); ok {
		m.press = &pressState{item: it, at: p}
	}
}

// pointerMoved turns a held press into a drag once the pointer leaves the pressed cell,
// then reports the container under the pointer.
func (m *appModel) pointerMoved(p command.Point) {
	if m.dragging == nil {
		if m.press == nil || p == m.press.at {
			return
		}
		it := m.press.item
		m.press = nil
		if !m.startDrag(it) {
			return
		}
		m.keyDrag = false
	}
	if m.keyDrag {
		return
	}
	if c := m.containerFor(*m.dragging, m.hitTest(p.X, p.Y)); c != nil {
		m.over(*c)
	}
}

func (m *appModel) release(p command.Point) {
	m.press = nil
	if m.dragging == nil || m.keyDrag {
		return
	}
	m.endDrag(m.containerFor(*m.dragging, m.hitTest(p.X, p.Y)))
}

func (m *appModel) startDrag(it drag.Item) bool {
	if err := m.engine.Start(it); err != nil {
		m.notify(command.LevelError, err.Error())
		return false
	}
	m.dragging = &it
	return true
}

func (m *appModel) over(c drag.Container) {
	if err := m.engine.Over(*m.dragging, c); err != nil {
		m.log.WithError(err).Warn("drag over")
	}
}

func (m *appModel) endDrag(c *drag.Container) {
	it := *m.dragging
	m.dragging = nil
	m.keyDrag = false

	out, err := m.engine.End(it, c)
	if err != nil {
		m.notify(command.LevelError, err.Error())
		return
	}
	m.log.WithFields(log.Fields{"item": it.String(), "outcome": string(out)}).Info("drop")

	switch out {
	case drag.OutcomeStatusChanged:
		label := "Pending"
		if t, ok := m.svc.Snapshot().FindTodo(it.TodoID); ok && t.Completed {
			label = "Done"
		}
		m.notify(command.LevelSuccess, fmt.Sprintf("Moved to %s", label))
	case drag.OutcomeReordered:
		m.notify(command.LevelSuccess, fmt.Sprintf("Moved %s", it.Kind))
	case drag.OutcomeRolledBack:
		m.notify(command.LevelInfo, "Drop cancelled")
	case drag.OutcomeIgnored:
		m.notify(command.LevelInfo, "Categories only move within their folder")
	}
}

func (m *appModel) cancelDrag() {
	m.engine.Cancel()
	m.dragging = nil
	m.keyDrag = false
	m.notify(command.LevelInfo, "Drop cancelled")
}

// handleDragKey drives a keyboard drag: the cursor is the pointer.
func (m *appModel) handleDragKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc":
		m.cancelDrag()
		return
	case "enter":
		m.endDrag(m.containerFor(*m.dragging, m.cursorHit()))
		return
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "left", "h":
		m.moveColumn(model.ColumnPending)
	case "right", "l":
		m.moveColumn(model.ColumnDone)
	default:
		return
	}
	if !m.keyDrag {
		return
	}
	if c := m.containerFor(*m.dragging, m.cursorHit()); c != nil {
		m.over(*c)
	}
}
