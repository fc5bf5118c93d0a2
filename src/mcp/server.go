package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"kite/src/buildkite"
	"kite/src/display"
	"kite/src/sanitize"
)

const defaultBuildLimit = 10

// BuildkiteClient is the subset of the Buildkite client the tools call.
type BuildkiteClient interface {
	GetBuildURLFromCommit(ctx context.Context, commitSHA string) (string, error)
	GetBuildURLFromBranch(ctx context.Context, branch string) (string, error)
	GetUserBuilds(ctx context.Context, limit int, showFinished bool) ([]buildkite.Build, error)
	GetJobArtifacts(ctx context.Context, jobID string, filter *regexp.Regexp) ([]buildkite.Artifact, error)
	GetBuildData(ctx context.Context, pipelineSlug string, buildNumber int) (map[string]any, error)
	Organization() string
}

// Server is the MCP server for kite.
type Server struct {
	mcpServer *server.MCPServer
	client    BuildkiteClient
}

// NewServer creates a new MCP server backed by client.
func NewServer(client BuildkiteClient, version string) *Server {
	s := server.NewMCPServer(
		"kite",
		version,
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		client:    client,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	commitTool := mcp.NewTool("build_url_for_commit",
		mcp.WithDescription("Find the Buildkite build for a commit in the configured pipeline and return its web URL."),
		mcp.WithString("commit",
			mcp.Required(),
			mcp.Description("Full commit SHA"),
		),
	)

	branchTool := mcp.NewTool("build_url_for_branch",
		mcp.WithDescription("Find the most recent Buildkite build for a branch in the configured pipeline and return its web URL."),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Branch name"),
		),
	)

	userBuildsTool := mcp.NewTool("user_builds",
		mcp.WithDescription("List the authenticated user's most recent builds with pipeline, state, URL and percentage of jobs finished."),
		mcp.WithNumber("limit",
			mcp.Description("Max builds to return (default: 10)"),
		),
		mcp.WithBoolean("show_finished",
			mcp.Description("Include finished builds (default: only running builds)"),
		),
	)

	artifactsTool := mcp.NewTool("job_artifacts",
		mcp.WithDescription("List artifact download URLs for a command job, optionally filtered by a regular expression."),
		mcp.WithString("job_id",
			mcp.Required(),
			mcp.Description("Job UUID"),
		),
		mcp.WithString("filter",
			mcp.Description("Regular expression matched against each download URL"),
		),
	)

	buildDataTool := mcp.NewTool("build_data",
		mcp.WithDescription("Fetch the raw REST representation of a build, identified either by its web URL or by pipeline and number."),
		mcp.WithString("url",
			mcp.Description("Build web URL, e.g. https://buildkite.com/org/pipeline/builds/42"),
		),
		mcp.WithString("pipeline",
			mcp.Description("Pipeline slug (when url is not given)"),
		),
		mcp.WithNumber("number",
			mcp.Description("Build number (when url is not given)"),
		),
	)

	s.mcpServer.AddTool(commitTool, s.handleBuildURLForCommit)
	s.mcpServer.AddTool(branchTool, s.handleBuildURLForBranch)
	s.mcpServer.AddTool(userBuildsTool, s.handleUserBuilds)
	s.mcpServer.AddTool(artifactsTool, s.handleJobArtifacts)
	s.mcpServer.AddTool(buildDataTool, s.handleBuildData)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleBuildURLForCommit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	commit := request.GetString("commit", "")
	if commit == "" {
		return mcp.NewToolResultError("commit parameter is required"), nil
	}

	url, err := s.client.GetBuildURLFromCommit(ctx, commit)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(BuildURLResult{URL: url})
}

func (s *Server) handleBuildURLForBranch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	branch := request.GetString("branch", "")
	if branch == "" {
		return mcp.NewToolResultError("branch parameter is required"), nil
	}

	url, err := s.client.GetBuildURLFromBranch(ctx, branch)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(BuildURLResult{URL: url})
}

func (s *Server) handleUserBuilds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultBuildLimit)
	if limit <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be positive, got %d", limit)), nil
	}
	showFinished := request.GetBool("show_finished", false)

	builds, err := s.client.GetUserBuilds(ctx, limit, showFinished)
	if err != nil {
		return toolError(err), nil
	}

	summaries := make([]BuildSummary, 0, len(builds))
	for _, b := range builds {
		summaries = append(summaries, summarize(b))
	}
	return jsonResult(summaries)
}

func (s *Server) handleJobArtifacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := request.GetString("job_id", "")
	if jobID == "" {
		return mcp.NewToolResultError("job_id parameter is required"), nil
	}

	var filter *regexp.Regexp
	if expr := request.GetString("filter", ""); expr != "" {
		re, err := regexp.Compile(expr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid filter: %v", err)), nil
		}
		filter = re
	}

	artifacts, err := s.client.GetJobArtifacts(ctx, jobID, filter)
	if err != nil {
		return toolError(err), nil
	}

	result := ArtifactsResult{JobID: jobID, DownloadURLs: make([]string, 0, len(artifacts))}
	for _, a := range artifacts {
		result.DownloadURLs = append(result.DownloadURLs, a.DownloadURL)
	}
	return jsonResult(result)
}

func (s *Server) handleBuildData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pipeline := request.GetString("pipeline", "")
	number := request.GetInt("number", 0)

	if buildURL := request.GetString("url", ""); buildURL != "" {
		p, n, err := buildkite.ParseBuildURL(buildURL)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if org := s.client.Organization(); p.Organization != org {
			return mcp.NewToolResultError(fmt.Sprintf("build belongs to organization %q, kite is configured for %q", p.Organization, org)), nil
		}
		pipeline, number = p.Slug, n
	}

	if pipeline == "" {
		return mcp.NewToolResultError("pipeline parameter is required"), nil
	}
	if number <= 0 {
		return mcp.NewToolResultError("number must be a positive build number"), nil
	}

	data, err := s.client.GetBuildData(ctx, pipeline, number)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(data)
}

func summarize(b buildkite.Build) BuildSummary {
	summary := BuildSummary{
		Number:   b.Number,
		Pipeline: b.Pipeline.Path(),
		State:    b.State,
		URL:      b.URL(),
		Message:  sanitize.Message(b.CommitMessage),
		Line:     display.Build(b),
	}
	if pct, ok := display.PercentFinished(b); ok {
		summary.Percent = &pct
	}
	return summary
}

// toolError reports a failed lookup as a tool-level error so the model can
// read it. Not-found messages are returned as is.
func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, buildkite.ErrNotFound) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(buildkite.WrapError(err).Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
