// Package style holds the lipgloss styles used for console messages.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors.
var (
	Green  = lipgloss.Color("2")
	Cyan   = lipgloss.Color("6")
	Red    = lipgloss.Color("1")
	Yellow = lipgloss.Color("3")
	Blue   = lipgloss.Color("4")
)

var (
	// NameStyle highlights project names and directories.
	NameStyle = lipgloss.NewStyle().Foreground(Green)

	// CommandStyle highlights commands, flags and file names.
	CommandStyle = lipgloss.NewStyle().Foreground(Cyan)

	ErrorStyle = lipgloss.NewStyle().Foreground(Red)

	WarningStyle = lipgloss.NewStyle().Foreground(Yellow)

	// DirStyle marks directories in conflict listings.
	DirStyle = lipgloss.NewStyle().Foreground(Blue)

	BoldStyle = lipgloss.NewStyle().Bold(true)
)

// Name renders s with NameStyle.
func Name(s string) string { return NameStyle.Render(s) }

// Command renders s with CommandStyle.
func Command(s string) string { return CommandStyle.Render(s) }

// Error renders s with ErrorStyle.
func Error(s string) string { return ErrorStyle.Render(s) }

// Warning renders s with WarningStyle.
func Warning(s string) string { return WarningStyle.Render(s) }

// Dir renders s with DirStyle.
func Dir(s string) string { return DirStyle.Render(s) }

// Bold renders s with BoldStyle.
func Bold(s string) string { return BoldStyle.Render(s) }

// DisableColor forces plain output regardless of the terminal.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
