// Package tui is the interactive terminal front end: a folder/category sidebar, the todo
// list or status board, context menus, modal forms, and mouse or keyboard drag and drop.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"gtodo-cli/internal/app"
)

// Run blocks until the user quits. Every mutation goes through svc, so an autosaver
// subscribed to it persists TUI changes as they happen.
func Run(svc *app.Service, logger log.FieldLogger) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(svc, logger)
	unsubscribe := m.subscribe()
	defer unsubscribe()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
