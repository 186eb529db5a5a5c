package theme

import (
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/todo/pkg/settings"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Sidebar SidebarTheme
	Tasks   TaskTheme
	Footer  FooterTheme
	Panel   lipgloss.Style
}

// SidebarTheme styles the collection list.
type SidebarTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Counts   lipgloss.Style
}

// TaskTheme styles the task list of the selected collection.
type TaskTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Open     lipgloss.Style
	Done     lipgloss.Style
	Cursor   lipgloss.Style
	Empty    lipgloss.Style
	Selected lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	Filter              lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
}

type palette struct {
	accent lipgloss.TerminalColor
	text   lipgloss.TerminalColor
	muted  lipgloss.TerminalColor
	faint  lipgloss.TerminalColor
	border lipgloss.TerminalColor
}

func paletteFor(scheme string) palette {
	switch scheme {
	case settings.SchemeForceLight:
		return palette{
			accent: lipgloss.Color("162"),
			text:   lipgloss.Color("235"),
			muted:  lipgloss.Color("242"),
			faint:  lipgloss.Color("248"),
			border: lipgloss.Color("250"),
		}
	case settings.SchemeForceDark:
		return palette{
			accent: lipgloss.Color("212"),
			text:   lipgloss.Color("252"),
			muted:  lipgloss.Color("244"),
			faint:  lipgloss.Color("241"),
			border: lipgloss.Color("238"),
		}
	default:
		return palette{
			accent: lipgloss.AdaptiveColor{Light: "162", Dark: "212"},
			text:   lipgloss.AdaptiveColor{Light: "235", Dark: "252"},
			muted:  lipgloss.AdaptiveColor{Light: "242", Dark: "244"},
			faint:  lipgloss.AdaptiveColor{Light: "248", Dark: "241"},
			border: lipgloss.AdaptiveColor{Light: "250", Dark: "238"},
		}
	}
}

// ForScheme returns the theme for a color-scheme setting. Unknown schemes
// follow the terminal background.
func ForScheme(scheme string) Theme {
	p := paletteFor(scheme)

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1)
	title := lipgloss.NewStyle().Bold(true).Foreground(p.text)
	commandName := lipgloss.NewStyle().
		Foreground(p.accent).
		Bold(true)

	return Theme{
		Sidebar: SidebarTheme{
			Frame:    frame,
			Title:    title,
			Item:     lipgloss.NewStyle().Foreground(p.text),
			Selected: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
			Counts:   lipgloss.NewStyle().Foreground(p.muted),
		},
		Tasks: TaskTheme{
			Frame:    frame,
			Title:    title,
			Open:     lipgloss.NewStyle().Foreground(p.text),
			Done:     lipgloss.NewStyle().Foreground(p.faint).Strikethrough(true),
			Cursor:   lipgloss.NewStyle().Foreground(p.accent),
			Empty:    lipgloss.NewStyle().Foreground(p.muted).Italic(true),
			Selected: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		},
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(p.muted),
			Status:              lipgloss.NewStyle().Foreground(p.text),
			Filter:              lipgloss.NewStyle().Foreground(p.accent),
			CommandName:         commandName,
			CommandDescription:  lipgloss.NewStyle().Foreground(p.muted),
			CommandSelectedName: commandName.Reverse(true),
		},
		Panel: frame.Padding(1, 2),
	}
}

// Default returns the theme that follows the terminal background.
func Default() Theme {
	return ForScheme(settings.SchemeDefault)
}
