// Package report prints the human-readable status line of a run.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled status lines. Colors are dropped automatically when
// the writer is not a terminal, as on most CI runners.
type Printer struct {
	w       io.Writer
	success lipgloss.Style
	notice  lipgloss.Style
	failure lipgloss.Style
}

// New creates a Printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)

	return &Printer{
		w: w,
		success: r.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true),
		notice: r.NewStyle().
			Foreground(lipgloss.Color("99")), // Light blue
		failure: r.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true),
	}
}

// Verb returns "Added" for newly opened content and "Moved" otherwise.
func Verb(action string) string {
	if action == "opened" {
		return "Added"
	}
	return "Moved"
}

// Done prints the success line.
func (p *Printer) Done(action, column, project string) {
	p.line(p.success, fmt.Sprintf("✅ %s card to %s in %s", Verb(action), column, project))
}

// Unchanged prints the line for a card that was left in place.
func (p *Printer) Unchanged(project string) {
	p.line(p.notice, fmt.Sprintf("🆗 Card already assigned to %s. No changes needed.", project))
}

// Failed prints a failure line for local runs.
func (p *Printer) Failed(err error) {
	p.line(p.failure, fmt.Sprintf("❌ %v", err))
}

func (p *Printer) line(style lipgloss.Style, msg string) {
	fmt.Fprintln(p.w, style.Render(msg))
}
