// Package ui renders plan previews in the terminal.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Background(lipgloss.Color("#052e16"))
	removeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Background(lipgloss.Color("#2d0a0a"))
	hunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	fileStyle   = lipgloss.NewStyle().Bold(true)
)
