package buildkite

import (
	"fmt"
	"slices"
	"strings"
)

// WebBaseURL is the base URL for Buildkite build pages.
const WebBaseURL = "https://buildkite.com"

// Build states as reported by the GraphQL API.
const (
	BuildStateSkipped   = "SKIPPED"
	BuildStatePassed    = "PASSED"
	BuildStateFailed    = "FAILED"
	BuildStateCanceled  = "CANCELED"
	BuildStateCreating  = "CREATING"
	BuildStateRunning   = "RUNNING"
	BuildStateFailing   = "FAILING"
	BuildStateCanceling = "CANCELING"
	BuildStateBlocked   = "BLOCKED"
	BuildStateScheduled = "SCHEDULED"
)

// Job states that count as finished. Everything else is in progress.
const (
	JobStateBlockedFailed   = "BLOCKED_FAILED"
	JobStateUnblockedFailed = "UNBLOCKED_FAILED"
	JobStateFinished        = "FINISHED"
	JobStateCanceled        = "CANCELED"
	JobStateTimedOut        = "TIMED_OUT"
	JobStateSkipped         = "SKIPPED"
)

// BuildFinishedStates returns the build states considered finished.
func BuildFinishedStates() []string {
	return []string{BuildStateSkipped, BuildStatePassed, BuildStateFailed, BuildStateCanceled}
}

// BuildRunningStates returns the build states considered running or pending.
func BuildRunningStates() []string {
	return []string{
		BuildStateCreating,
		BuildStateRunning,
		BuildStateFailing,
		BuildStateCanceling,
		BuildStateBlocked,
		BuildStateScheduled,
	}
}

// JobFinishedStates returns the job states considered finished.
func JobFinishedStates() []string {
	return []string{
		JobStateBlockedFailed,
		JobStateUnblockedFailed,
		JobStateFinished,
		JobStateCanceled,
		JobStateTimedOut,
		JobStateSkipped,
	}
}

// IsBuildRunning reports whether state is in the running/pending set.
func IsBuildRunning(state string) bool {
	return slices.Contains(BuildRunningStates(), state)
}

// IsBuildFinished reports whether state is in the finished set.
func IsBuildFinished(state string) bool {
	return slices.Contains(BuildFinishedStates(), state)
}

// IsJobFinished reports whether a job state is terminal.
func IsJobFinished(state string) bool {
	return slices.Contains(JobFinishedStates(), state)
}

// Pipeline represents a Buildkite pipeline.
type Pipeline struct {
	Name         string
	Color        string
	Slug         string
	Organization string
}

// Path returns the org-qualified pipeline slug used in build page URLs.
func (p Pipeline) Path() string {
	if p.Organization == "" || strings.Contains(p.Slug, "/") {
		return p.Slug
	}
	return p.Organization + "/" + p.Slug
}

// Job represents a single command job within a build.
// Passed is only meaningful once the job has finished.
type Job struct {
	State  string
	Passed bool
}

// Finished reports whether the job is in a terminal state.
func (j Job) Finished() bool {
	return IsJobFinished(j.State)
}

// Build represents one execution of a pipeline.
type Build struct {
	Number        int
	CommitMessage string
	Pipeline      Pipeline
	State         string
	Jobs          []Job
}

// URL returns the build page URL. Only the pipeline path and number take part.
func (b Build) URL() string {
	return fmt.Sprintf("%s/%s/builds/%d", WebBaseURL, b.Pipeline.Path(), b.Number)
}

// FinishedJobs counts the jobs in a terminal state.
func (b Build) FinishedJobs() int {
	n := 0
	for _, j := range b.Jobs {
		if j.Finished() {
			n++
		}
	}
	return n
}

// Artifact is a file uploaded by a job.
type Artifact struct {
	DownloadURL string `json:"downloadURL"`
}
