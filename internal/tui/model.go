package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"gtodo-cli/internal/app"
	"gtodo-cli/internal/command"
	"gtodo-cli/internal/drag"
	"gtodo-cli/internal/model"
	"gtodo-cli/internal/selection"
	"gtodo-cli/internal/store"
)

const flashTTL = 4 * time.Second

type pane int

const (
	paneSidebar pane = iota
	paneTodos
)

// changeMsg carries a store change delivered through the service subscription.
type changeMsg app.Change

type clearFlashMsg struct{ seq int }

// flashState is shared with the surface's notifier, which runs inside Update.
type flashState struct {
	notice command.Notice
	seq    int
}

// pressState is a primary-button press that may turn into a drag once the pointer moves.
type pressState struct {
	item drag.Item
	at   command.Point
}

type appModel struct {
	svc     *app.Service
	log     log.FieldLogger
	surface *command.Surface
	engine  *drag.Engine
	flash   *flashState
	changes chan app.Change

	db   *store.DB
	sel  selection.Selection
	view app.View

	width  int
	height int

	focus      pane
	sideCursor int
	todoCursor int
	boardCol   model.Column

	// Form inputs mirror the surface's open form; nil while no form is open.
	inputs     []textinput.Model
	inputFocus int
	formRef    *command.Form

	press    *pressState
	dragging *drag.Item
	// keyDrag is set when the active drag was started from the keyboard.
	keyDrag bool
}

func newAppModel(svc *app.Service, logger log.FieldLogger) appModel {
	if logger == nil {
		logger = log.StandardLogger()
	}
	f := &flashState{}
	notifier := command.NotifierFunc(func(n command.Notice) {
		f.notice = n
		f.seq++
		logger.WithField("notice", string(n.Level)).Debug(n.Message)
	})
	m := appModel{
		svc:      svc,
		log:      logger,
		surface:  command.NewSurface(svc, notifier),
		engine:   drag.NewEngine(svc, logger),
		flash:    f,
		changes:  make(chan app.Change, 64),
		boardCol: model.ColumnPending,
		width:    80,
		height:   24,
	}
	m.sync()
	m.sideCursor = m.selectedSideRow()
	return m
}

// subscribe forwards service changes into the program. The listener never blocks the
// mutating goroutine; a full buffer drops the change because every changeMsg re-reads
// the service anyway.
func (m appModel) subscribe() (unsubscribe func()) {
	return m.svc.Subscribe(func(c app.Change) {
		select {
		case m.changes <- c:
		default:
		}
	})
}

func (m appModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		c, ok := <-m.changes
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func (m appModel) Init() tea.Cmd { return m.waitForChange() }

// sync re-reads the service and clamps cursors against the new snapshot.
func (m *appModel) sync() {
	m.db = m.svc.Snapshot()
	m.sel = m.svc.Selection()
	m.view = m.svc.View()
	m.surface.Viewport = command.Size{W: m.width, H: m.height}

	if n := len(m.sideRows()); m.sideCursor >= n {
		m.sideCursor = n - 1
	}
	if m.sideCursor < 0 {
		m.sideCursor = 0
	}
	if n := len(m.cursorTodos()); m.todoCursor >= n {
		m.todoCursor = n - 1
	}
	if m.todoCursor < 0 {
		m.todoCursor = 0
	}

	m.engine.ResetRegistrations()
	if m.view == app.ViewBoard {
		for _, t := range m.visibleTodos() {
			m.engine.Register(t.ID, model.ColumnOf(t))
		}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	seq := m.flash.seq
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sync()
		return m, nil

	case changeMsg:
		m.sync()
		return m, m.waitForChange()

	case clearFlashMsg:
		if msg.seq == m.flash.seq {
			m.flash.notice = command.Notice{}
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	m.syncForm()
	m.sync()
	if m.flash.seq != seq {
		cmds = append(cmds, clearFlashAfter(m.flash.seq))
	}
	return m, tea.Batch(cmds...)
}

func clearFlashAfter(seq int) tea.Cmd {
	return tea.Tick(flashTTL, func(time.Time) tea.Msg { return clearFlashMsg{seq: seq} })
}

func (m *appModel) notify(level command.Level, msg string) {
	m.flash.notice = command.Notice{Level: level, Message: msg}
	m.flash.seq++
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.surface.Mode() {
	case command.ModeForm:
		return m.handleFormKey(msg)
	case command.ModeConfirm:
		m.handleConfirmKey(msg)
		return nil
	case command.ModeMenu:
		m.handleMenuKey(msg)
		return nil
	}
	if m.dragging != nil {
		m.handleDragKey(msg)
		return nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.SwitchPane):
		if m.focus == paneSidebar {
			m.focus = paneTodos
		} else {
			m.focus = paneSidebar
		}
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.Left):
		m.moveColumn(model.ColumnPending)
	case key.Matches(msg, keys.Right):
		m.moveColumn(model.ColumnDone)
	case key.Matches(msg, keys.Open):
		m.activateCursor()
	case key.Matches(msg, keys.Back):
		if m.sel.TodoID != nil {
			_ = m.svc.SelectTodo(nil)
		}
	case key.Matches(msg, keys.ToggleView):
		if m.view == app.ViewBoard {
			m.svc.SelectView(app.ViewList)
		} else {
			m.svc.SelectView(app.ViewBoard)
		}
	case key.Matches(msg, keys.Toggle):
		if t, ok := m.focusedTodo(); ok {
			m.svc.SetTodoCompleted(t.ID, !t.Completed)
		}
	case key.Matches(msg, keys.NewFolder):
		m.surface.OpenForm(command.Form{Kind: command.FormCreateFolder})
	case key.Matches(msg, keys.NewCat):
		if m.sel.FolderID != "" {
			m.surface.OpenForm(command.Form{Kind: command.FormCreateCategory, FolderID: m.sel.FolderID})
		}
	case key.Matches(msg, keys.NewTodo):
		m.openCreateTodo()
	case key.Matches(msg, keys.Rename):
		if m.focus == paneTodos && m.detailOpen() {
			m.editTodo()
		} else if t, ok := m.focusedTarget(); ok {
			m.surface.OpenEdit(t)
		}
	case key.Matches(msg, keys.Edit):
		m.editTodo()
	case key.Matches(msg, keys.Delete):
		if t, ok := m.focusedTarget(); ok {
			m.surface.RequestDelete(t)
		}
	case key.Matches(msg, keys.Menu):
		if t, ok := m.focusedTarget(); ok {
			m.surface.OpenMenu(t, m.focusedPoint())
		}
	case key.Matches(msg, keys.Move):
		if it, ok := m.focusedDragItem(); ok {
			m.keyDrag = m.startDrag(it)
		}
	}
	return nil
}

func (m *appModel) openCreateTodo() {
	f, ok := m.db.FindFolder(m.sel.FolderID)
	if !ok {
		m.notify(command.LevelError, "Create a folder first")
		return
	}
	categoryID := m.sel.CategoryID
	if categoryID == "" {
		if len(f.Categories) == 0 {
			m.notify(command.LevelError, "Add a category to this folder first")
			return
		}
		categoryID = f.Categories[0].ID
	}
	m.surface.OpenForm(command.Form{Kind: command.FormCreateTodo, FolderID: f.ID, CategoryID: categoryID})
}

// editTodo opens the edit form for the todo shown in the detail pane, or else the
// focused todo.
func (m *appModel) editTodo() {
	if m.detailOpen() {
		m.surface.OpenEdit(command.TodoTarget{TodoID: *m.sel.TodoID})
		return
	}
	if t, ok := m.focusedTodo(); ok {
		m.surface.OpenEdit(command.TodoTarget{TodoID: t.ID})
	}
}

func (m *appModel) moveCursor(delta int) {
	if m.focus == paneSidebar {
		m.sideCursor = clampIndex(m.sideCursor+delta, len(m.sideRows()))
		return
	}
	m.todoCursor = clampIndex(m.todoCursor+delta, len(m.cursorTodos()))
}

func (m *appModel) moveColumn(col model.Column) {
	if m.view != app.ViewBoard || m.focus != paneTodos || m.boardCol == col {
		return
	}
	m.boardCol = col
	m.todoCursor = clampIndex(m.todoCursor, len(m.cursorTodos()))
}

// activateCursor selects the sidebar row under the cursor or opens the focused todo.
func (m *appModel) activateCursor() {
	if m.focus == paneSidebar {
		rows := m.sideRows()
		if m.sideCursor < len(rows) {
			m.selectSideRow(rows[m.sideCursor])
		}
		return
	}
	if t, ok := m.focusedTodo(); ok {
		id := t.ID
		_ = m.svc.SelectTodo(&id)
	}
}

func (m *appModel) selectSideRow(r sideRow) {
	if r.categoryID == "" {
		if err := m.svc.SelectFolder(r.folderID); err != nil {
			m.notify(command.LevelError, err.Error())
			return
		}
		_ = m.svc.SelectCategory("")
		m.todoCursor = 0
		return
	}
	if r.folderID != m.sel.FolderID {
		if err := m.svc.SelectFolder(r.folderID); err != nil {
			m.notify(command.LevelError, err.Error())
			return
		}
	}
	if err := m.svc.SelectCategory(r.categoryID); err != nil {
		m.notify(command.LevelError, err.Error())
	}
	m.todoCursor = 0
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
