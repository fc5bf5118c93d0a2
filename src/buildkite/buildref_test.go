package buildkite

import (
	"errors"
	"testing"
)

func TestParseBuildURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantPath   string
		wantNumber int
		wantErr    bool
	}{
		{
			name:       "build URL",
			url:        "https://buildkite.com/retool/my-pipeline/builds/42",
			wantPath:   "retool/my-pipeline",
			wantNumber: 42,
		},
		{
			name:       "job anchor",
			url:        "https://buildkite.com/org/pipeline/builds/123#0190-abcd",
			wantPath:   "org/pipeline",
			wantNumber: 123,
		},
		{
			name:    "github actions URL",
			url:     "https://github.com/owner/repo/actions/runs/456",
			wantErr: true,
		},
		{
			name:    "build zero",
			url:     "https://buildkite.com/org/pipeline/builds/0",
			wantErr: true,
		},
		{
			name:    "invalid URL",
			url:     "https://example.com/invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, n, err := ParseBuildURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBuildURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("ParseBuildURL() error = %v, want ErrInvalidURL", err)
				}
				return
			}
			if p.Path() != tt.wantPath || n != tt.wantNumber {
				t.Errorf("ParseBuildURL() = %q, %d; want %q, %d", p.Path(), n, tt.wantPath, tt.wantNumber)
			}
		})
	}
}

func TestParseBuildURL_RoundTrip(t *testing.T) {
	b := Build{Number: 7, Pipeline: Pipeline{Slug: "web", Organization: "acme"}}

	p, n, err := ParseBuildURL(b.URL())
	if err != nil {
		t.Fatalf("ParseBuildURL(%q) error = %v", b.URL(), err)
	}
	if p.Path() != b.Pipeline.Path() || n != b.Number {
		t.Errorf("round trip = %q #%d, want %q #%d", p.Path(), n, b.Pipeline.Path(), b.Number)
	}
}
