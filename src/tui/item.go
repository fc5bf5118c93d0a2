package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"kite/src/buildkite"
	"kite/src/display"
	"kite/src/sanitize"
)

// Item wraps a build for the bubbles list.
type Item struct {
	Build buildkite.Build
}

// FilterValue matches on pipeline name and commit subject.
func (i Item) FilterValue() string {
	return i.Build.Pipeline.Name + " " + sanitize.Message(i.Build.CommitMessage)
}

// Title returns the status line for the build.
func (i Item) Title() string { return display.Build(i.Build) }

// Description returns the commit subject.
func (i Item) Description() string { return sanitize.Message(i.Build.CommitMessage) }

func toItems(builds []buildkite.Build) []list.Item {
	items := make([]list.Item, len(builds))
	for i, b := range builds {
		items[i] = Item{Build: b}
	}
	return items
}
