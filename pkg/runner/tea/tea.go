// Package teaui is the full screen terminal interface: a collection sidebar,
// the filtered task list of the selected collection and a footer bar.
package teaui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/todo/pkg/app"
)

// Run launches the Bubble Tea UI on sess and blocks until it exits.
func Run(sess *app.Session, opts Options) error {
	m := New(sess, opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
