package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// swatchWidth is the color block plus its trailing space.
	swatchWidth = 2
	// cursorWidth is the "> " marker in front of every row.
	cursorWidth = 2
)

// Delegate renders one build per row: cursor, pipeline color swatch and the
// display line truncated to the list width.
type Delegate struct {
	styles *StyleConfig
}

// NewDelegate creates a delegate with default styles
func NewDelegate() Delegate {
	return Delegate{styles: DefaultStyles()}
}

// NewDelegateWithStyles creates a delegate with custom styles
func NewDelegateWithStyles(styles *StyleConfig) Delegate {
	return Delegate{styles: styles}
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a list item
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	cursor := "  "
	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if index == m.Index() {
		cursor = "> "
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}

	line := entry.Title()
	if width := m.Width() - cursorWidth - swatchWidth; width > 0 {
		line = Truncate(line, width, true)
	}

	fmt.Fprint(w, cursor+d.swatch(entry.Build.Pipeline.Color)+style.Render(line))
}

// swatch renders a block in the pipeline color, or blank space when the
// pipeline has none.
func (d Delegate) swatch(color string) string {
	if color == "" {
		return "  "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█") + " "
}
