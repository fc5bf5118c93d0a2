// Package tui provides the interactive build picker used by `kite builds`.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kite/src/buildkite"
)

// ErrNoSelection is returned by Pick when the user quits without choosing.
var ErrNoSelection = errors.New("no build selected")

// Model is the Bubble Tea model for the build picker.
type Model struct {
	list     list.Model
	styles   *StyleConfig
	selected *buildkite.Build
	quitting bool
}

// NewModel creates a picker over builds, in the given order.
func NewModel(builds []buildkite.Build) Model {
	styles := DefaultStyles()
	delegate := NewDelegateWithStyles(styles)

	l := list.New(toItems(builds), delegate, 0, 0)
	l.Title = "Builds"
	l.Styles.Title = styles.TitleStyle()
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{list: l, styles: styles}
}

// Init initializes the model. Required by tea.Model interface.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// one line reserved for help
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		// Typing a filter owns every key except ctrl+c.
		if m.list.FilterState() == list.Filtering && msg.String() != "ctrl+c" {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(Item); ok {
				b := item.Build
				m.selected = &b
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list and a help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.renderHelpText())
}

func (m Model) renderHelpText() string {
	keyStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary)

	helpText := fmt.Sprintf("%s: Nav %s %s: Open %s %s: Filter %s %s: Quit",
		keyStyle.Render("j/k"), sepStyle.Render("•"),
		keyStyle.Render("Enter"), sepStyle.Render("•"),
		keyStyle.Render("/"), sepStyle.Render("•"),
		keyStyle.Render("q"))
	return m.styles.HelpStyle().Render(helpText)
}

// Selected returns the chosen build, if any.
func (m Model) Selected() (buildkite.Build, bool) {
	if m.selected == nil {
		return buildkite.Build{}, false
	}
	return *m.selected, true
}

// Pick runs the picker on the terminal and returns the chosen build.
func Pick(builds []buildkite.Build, opts ...tea.ProgramOption) (buildkite.Build, error) {
	if len(builds) == 0 {
		return buildkite.Build{}, ErrNoSelection
	}

	final, err := tea.NewProgram(NewModel(builds), opts...).Run()
	if err != nil {
		return buildkite.Build{}, fmt.Errorf("running build picker: %w", err)
	}
	if b, ok := final.(Model).Selected(); ok {
		return b, nil
	}
	return buildkite.Build{}, ErrNoSelection
}
