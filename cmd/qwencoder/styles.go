package main

import "github.com/charmbracelet/lipgloss"

var (
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#cf222e"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1a7f37"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cf222e"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0969da"))
)
