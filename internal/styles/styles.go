package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188" // Errors
	Orange  = "#FC9867" // Stale pages
	Yellow  = "#FFD866" // Selection
	Green   = "#A9DC76" // Success
	Cyan    = "#78DCE8" // New pages
	Magenta = "#AB9DF2" // Titles

	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Magenta))
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	LabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment)).Bold(true)
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))

	PagerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			PaddingRight(2)

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border))
)

// TableStyles returns bubbles table styles in the site palette
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(Border)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(Magenta))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(Background)).
		Background(lipgloss.Color(Yellow)).
		Bold(false)
	return s
}
