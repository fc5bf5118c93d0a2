// Package mcp exposes read-only kite lookups as MCP tools over stdio.
package mcp

// BuildSummary is one entry of the user_builds tool response.
type BuildSummary struct {
	Number   int    `json:"number"`
	Pipeline string `json:"pipeline"`
	State    string `json:"state"`
	URL      string `json:"url"`
	Message  string `json:"message"`
	// Percent is omitted for builds without jobs.
	Percent *int `json:"percent,omitempty"`
	Line    string `json:"line"`
}

// BuildURLResult is the response of the commit and branch lookup tools.
type BuildURLResult struct {
	URL string `json:"url"`
}

// ArtifactsResult is the response of the job_artifacts tool.
type ArtifactsResult struct {
	JobID        string   `json:"job_id"`
	DownloadURLs []string `json:"download_urls"`
}
