package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

type printer struct {
	out io.Writer
	err io.Writer
}

func (p printer) ok(msg string) {
	fmt.Fprintln(p.out, successStyle.Render("✔ "+msg))
}

func (p printer) info(msg string) {
	fmt.Fprintln(p.out, mutedStyle.Render("• "+msg))
}

func (p printer) fail(msg string) {
	fmt.Fprintln(p.err, errorStyle.Render("✖ "+msg))
}

func (p printer) panel(lines []string) {
	fmt.Fprintln(p.out, panelStyle.Render(strings.Join(lines, "\n")))
}
