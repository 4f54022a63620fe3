package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type styles struct {
	title lipgloss.Style
	key   lipgloss.Style
	value lipgloss.Style
}

// newStyles returns colored styles when f is a terminal and plain ones
// otherwise, so piped output stays free of escape codes.
func newStyles(f *os.File) styles {
	if !term.IsTerminal(int(f.Fd())) {
		plain := lipgloss.NewStyle()
		return styles{title: plain, key: plain, value: plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		key:   lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		value: lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
	}
}

func errorStyle(f *os.File) lipgloss.Style {
	if !term.IsTerminal(int(f.Fd())) {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
}
