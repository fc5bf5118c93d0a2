package buildkite

import "testing"

func TestBuild_URL(t *testing.T) {
	tests := []struct {
		name  string
		build Build
		want  string
	}{
		{
			name:  "qualified slug",
			build: Build{Number: 42, Pipeline: Pipeline{Slug: "retool/my-pipeline"}},
			want:  "https://buildkite.com/retool/my-pipeline/builds/42",
		},
		{
			name:  "slug qualified by organization",
			build: Build{Number: 42, Pipeline: Pipeline{Slug: "my-pipeline", Organization: "retool"}},
			want:  "https://buildkite.com/retool/my-pipeline/builds/42",
		},
		{
			name: "other fields do not take part",
			build: Build{
				Number:        1,
				CommitMessage: "anything",
				State:         BuildStateFailed,
				Pipeline:      Pipeline{Name: "Name", Color: "#fff", Slug: "org/p"},
				Jobs:          []Job{{State: JobStateFinished}},
			},
			want: "https://buildkite.com/org/p/builds/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build.URL(); got != tt.want {
				t.Errorf("URL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildStates_Disjoint(t *testing.T) {
	for _, s := range BuildRunningStates() {
		if IsBuildFinished(s) {
			t.Errorf("state %s is both running and finished", s)
		}
		if !IsBuildRunning(s) {
			t.Errorf("IsBuildRunning(%s) = false", s)
		}
	}
	for _, s := range BuildFinishedStates() {
		if IsBuildRunning(s) {
			t.Errorf("state %s is both finished and running", s)
		}
	}
}

func TestBuildStates_ReturnFreshSlices(t *testing.T) {
	states := BuildRunningStates()
	states[0] = "MUTATED"
	if !IsBuildRunning(BuildStateCreating) {
		t.Error("mutating a returned slice changed the running set")
	}
}

func TestJob_Finished(t *testing.T) {
	for _, s := range JobFinishedStates() {
		if !(Job{State: s}).Finished() {
			t.Errorf("job state %s should be finished", s)
		}
	}
	for _, s := range []string{"RUNNING", "SCHEDULED", "ASSIGNED", "WAITING", ""} {
		if (Job{State: s}).Finished() {
			t.Errorf("job state %q should be in progress", s)
		}
	}
}

func TestBuild_FinishedJobs(t *testing.T) {
	b := Build{Jobs: []Job{
		{State: JobStateFinished, Passed: true},
		{State: "RUNNING", Passed: false},
	}}
	if got := b.FinishedJobs(); got != 1 {
		t.Errorf("FinishedJobs() = %d, want 1", got)
	}
	if got := (Build{}).FinishedJobs(); got != 0 {
		t.Errorf("FinishedJobs() on empty build = %d, want 0", got)
	}
}
