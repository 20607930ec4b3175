// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"ltask/internal/filter"
	"ltask/internal/service"
)

const (
	// Separator is the separator line around section headers.
	Separator = "------------"

	checkedBox   = "[x]"
	uncheckedBox = "[ ]"
)

var (
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true)
)

// FormatTask formats a numbered task line.
// Format: "{N:>4}  [x] {NAME}\n" (4-wide right-aligned number, two spaces, checkbox, name)
// Completed names are struck through when w is a terminal.
func FormatTask(w io.Writer, num int, task service.Task) {
	name := normalizeName(task.Name)
	box := uncheckedBox
	if task.Completed {
		box = checkedBox
		if IsTerminal(w) {
			name = completedStyle.Render(name)
		}
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, box, name)
}

// FormatFilterHeader formats the section header shown for a non-default filter.
func FormatFilterHeader(w io.Writer, mode service.FilterMode) {
	title := strings.ToUpper(mode.String()[:1]) + mode.String()[1:]
	if IsTerminal(w) {
		title = headerStyle.Render(title)
	}
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, Separator)
}

// FormatCounts formats per-status totals.
func FormatCounts(w io.Writer, c filter.Counts) {
	fmt.Fprintf(w, "%-10s %d\n", "all", c.All)
	fmt.Fprintf(w, "%-10s %d\n", "active", c.Active)
	fmt.Fprintf(w, "%-10s %d\n", "completed", c.Completed)
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeName normalizes a task name for display.
// - Newlines are replaced with spaces
// - Empty or whitespace-only names become "(untitled)"
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
