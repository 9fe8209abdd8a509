// Package ui holds sage's terminal styling and the progress spinner.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorGreen  = lipgloss.Color("2")
	ColorRed    = lipgloss.Color("1")
	ColorYellow = lipgloss.Color("3")
	ColorBlue   = lipgloss.Color("4")
	ColorCyan   = lipgloss.Color("6")
	ColorGray   = lipgloss.Color("8")

	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorYellow)
	DimStyle     = lipgloss.NewStyle().Foreground(ColorGray)

	BranchStyle    = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	CommitStyle    = lipgloss.NewStyle().Foreground(ColorYellow)
	EventKindStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	TimestampStyle = lipgloss.NewStyle().Foreground(ColorGray)
)

// Success renders s in the success style.
func Success(s string) string { return SuccessStyle.Render(s) }

// Error renders s in the error style.
func Error(s string) string { return ErrorStyle.Render(s) }

// Warn renders s in the warning style.
func Warn(s string) string { return WarnStyle.Render(s) }

// Dim renders s dimmed.
func Dim(s string) string { return DimStyle.Render(s) }

// Branch renders a branch name.
func Branch(s string) string { return BranchStyle.Render(s) }

// Commit renders a commit id.
func Commit(s string) string { return CommitStyle.Render(s) }
