package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	// Legend and column header lines
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	// Row styles
	RowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	AltRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	SelectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("15")).
				Bold(true)

	// Status styles
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	// Kill confirmation prompt; one line, it replaces the status line
	ConfirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")).
			Bold(true)
)
