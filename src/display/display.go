// Package display renders builds as fixed-width status lines.
package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"kite/src/buildkite"
)

const (
	pipelineWidth = 50
	numberWidth   = 10
	percentWidth  = 6
	stateWidth    = 20
)

// noJobsPercent stands in for the percentage when a build has no jobs.
const noJobsPercent = "-"

// newlines are flattened so a line always renders as one list row.
var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// PercentFinished returns round(100*finished/total), rounding halves to even
// (1 of 8 is 12). ok is false when the build has no jobs.
func PercentFinished(b buildkite.Build) (pct int, ok bool) {
	total := len(b.Jobs)
	if total == 0 {
		return 0, false
	}
	return int(math.RoundToEven(float64(b.FinishedJobs()) * 100 / float64(total))), true
}

// Build renders a build as a single line:
//
//	<pipeline name:50> <number:10><percent:>6>% finished    <State: state:20>
//
// with trailing whitespace trimmed.
func Build(b buildkite.Build) string {
	name := newlines.Replace(b.Pipeline.Name)

	percent := noJobsPercent
	if pct, ok := PercentFinished(b); ok {
		percent = fmt.Sprintf("%d", pct)
	}

	var sb strings.Builder
	sb.WriteString(runewidth.FillRight(name, pipelineWidth))
	sb.WriteString(" ")
	sb.WriteString(fmt.Sprintf("%-*d", numberWidth, b.Number))
	sb.WriteString(fmt.Sprintf("%*s%% finished    ", percentWidth, percent))
	sb.WriteString(runewidth.FillRight("State: "+newlines.Replace(b.State), stateWidth))
	return strings.TrimRight(sb.String(), " \t")
}
