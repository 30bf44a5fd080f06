package browse

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"tzvalidate/internal/report"
)

// ErrNotTerminal is returned when stdout cannot host the viewer.
var ErrNotTerminal = errors.New("browse needs an interactive terminal")

// Run shows vd until the user quits.
func Run(vd *report.ValidationData) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	m := New(vd)
	if w, h, err := term.GetSize(fd); err == nil {
		m.resize(w, h)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
