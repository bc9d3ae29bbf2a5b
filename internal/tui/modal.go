package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gtodo-cli/internal/command"
)

const modalWidth = 48

// syncForm keeps the text inputs in step with the surface's open form. A new form
// (new pointer) gets fresh inputs seeded from its values.
func (m *appModel) syncForm() {
	f, ok := m.surface.Form()
	if !ok {
		m.inputs = nil
		m.formRef = nil
		return
	}
	if f == m.formRef {
		return
	}
	m.formRef = f
	m.inputFocus = 0

	newInput := func(placeholder, value string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Prompt = ""
		in.CharLimit = limit
		in.Width = modalWidth - 6
		in.SetValue(value)
		in.CursorEnd()
		return in
	}
	m.inputs = []textinput.Model{newInput(f.Placeholder(), f.Input, 200)}
	if f.IsTodo() {
		m.inputs = append(m.inputs,
			newInput("Description (markdown)", f.Description, 2000),
			newInput("Due date (YYYY-MM-DD)", f.DueDate, 10),
		)
	}
	m.focusInput(0)
}

func (m *appModel) focusInput(i int) {
	m.inputFocus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *appModel) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	m.syncForm()
	f, ok := m.surface.Form()
	if !ok || len(m.inputs) == 0 {
		return nil
	}

	switch msg.String() {
	case "esc", "ctrl+g":
		m.surface.Close()
		return nil
	case "tab", "down":
		m.focusInput((m.inputFocus + 1) % len(m.inputs))
		return nil
	case "shift+tab", "up":
		m.focusInput((m.inputFocus - 1 + len(m.inputs)) % len(m.inputs))
		return nil
	case "enter":
		m.surface.SetInput(m.inputs[0].Value())
		if len(m.inputs) == 3 {
			f.Description = m.inputs[1].Value()
			f.DueDate = m.inputs[2].Value()
		}
		if !f.CanSubmit() {
			f.Err = "Name is required"
			if f.IsTodo() {
				f.Err = "Title is required"
			}
			m.focusInput(0)
			return nil
		}
		m.surface.Submit()
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.inputFocus], cmd = m.inputs[m.inputFocus].Update(msg)
	if m.inputFocus == 0 {
		m.surface.SetInput(m.inputs[0].Value())
	}
	return cmd
}

func (m *appModel) handleMenuKey(msg tea.KeyMsg) {
	menu, ok := m.surface.Menu()
	if !ok {
		return
	}
	switch msg.String() {
	case "esc", "q":
		m.surface.Close()
	case "up", "k":
		menu.MoveCursor(-1)
	case "down", "j":
		menu.MoveCursor(1)
	case "enter":
		m.surface.Choose(menu.Selected())
	}
}

func (m *appModel) handleConfirmKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "enter":
		m.surface.ConfirmDelete()
	case "n", "esc":
		m.surface.Close()
	}
}

func renderModalBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(modalWidth)
	return box.Render(styleTitle().Render(title) + "\n\n" + content)
}

func (m appModel) renderForm(f *command.Form) string {
	var b strings.Builder
	labels := []string{f.Placeholder()}
	if f.IsTodo() {
		labels = append(labels, "Description", "Due date")
	}
	inputStyle := lipgloss.NewStyle().Background(colorInputBg).Width(modalWidth - 4)
	for i, in := range m.inputs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleMuted().Render(labels[i]) + "\n")
		b.WriteString(inputStyle.Render(in.View()) + "\n")
	}
	if f.Err != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(colorFlashErrorBg).Render(f.Err) + "\n")
	}
	help := "enter: save   esc: cancel"
	if len(m.inputs) > 1 {
		help = "tab: next field   " + help
	}
	b.WriteString("\n" + styleMuted().Render(help))
	return renderModalBox(f.Title(), b.String())
}

func renderConfirm(c *command.Confirm) string {
	content := c.Body + "\n\n" + styleMuted().Render("y: delete   n/esc: cancel")
	return renderModalBox(c.Title, content)
}

// renderMenu draws the context menu. Its size matches command.Menu.Footprint: one border
// and one padding cell on each side.
func renderMenu(menu *command.Menu) string {
	f := menu.Footprint()
	inner := f.W - 4
	lines := make([]string, len(menu.Actions))
	for i, a := range menu.Actions {
		ln := fitWidth(a.Label(), inner)
		if i == menu.Cursor {
			ln = styleSelected().Render(ln)
		}
		lines[i] = ln
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
