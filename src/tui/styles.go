package tui

import "github.com/charmbracelet/lipgloss"

// StyleConfig holds the colors used by the picker.
type StyleConfig struct {
	PrimaryBlue   lipgloss.Color
	TextSecondary lipgloss.Color
	SelectedColor lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:   lipgloss.Color("#8AB4F8"),
		TextSecondary: lipgloss.Color("#9AA0A6"),
		SelectedColor: lipgloss.Color("#303134"),
	}
}

// TitleStyle returns the list title style
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}

// HelpStyle returns the help line style
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}
