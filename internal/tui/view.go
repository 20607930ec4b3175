package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ltask/internal/service"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	filterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	filterOnStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("ltask"))
	b.WriteString("  ")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	if m.focus == focusInput {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	vis := m.visible()
	if len(vis) == 0 {
		b.WriteString(helpStyle.Render("no tasks"))
		b.WriteString("\n")
	}
	for i, task := range vis {
		b.WriteString(m.renderTask(i, task))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderFilters() string {
	parts := make([]string, 0, len(service.FilterModes))
	for i, mode := range service.FilterModes {
		label := string(rune('1'+i)) + ":" + mode.String()
		if mode == m.mode {
			parts = append(parts, filterOnStyle.Render(label))
		} else {
			parts = append(parts, filterStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderTask(i int, task service.Task) string {
	pointer := "  "
	if i == m.cursor && m.focus == focusList {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	name := task.Name
	if task.Completed {
		box = "[x]"
		name = completedStyle.Render(name)
	}
	return pointer + box + " " + name
}

func (m Model) helpLine() string {
	if m.focus == focusInput {
		return "enter add  esc cancel"
	}
	return "a add  space toggle  tab filter  1/2/3 all/active/completed  q quit"
}
