// Package buildkite provides a client for the Buildkite REST and GraphQL APIs
// and the build/pipeline/job model it produces.
package buildkite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	gobuildkite "github.com/buildkite/go-buildkite/buildkite"

	"kite/src/logger"
)

const (
	// APIBaseURL is the base URL for the Buildkite REST API.
	APIBaseURL = "https://api.buildkite.com/v2"
	// GraphQLURL is the Buildkite GraphQL endpoint.
	GraphQLURL = "https://graphql.buildkite.com/v1"

	// maxJobsPerBuild bounds the jobs fetched per build in GetUserBuilds.
	maxJobsPerBuild = 100
)

// BuildRequest is the typed CreateBuild body: commit, branch, message, author,
// env and meta data.
type BuildRequest = gobuildkite.CreateBuild

// Client is a Buildkite API client.
type Client struct {
	org        string
	apiToken   string
	pipeline   string
	restURL    string
	graphqlURL string
	httpClient *http.Client
	log        logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRESTBaseURL overrides the REST API base URL.
func WithRESTBaseURL(u string) Option {
	return func(c *Client) { c.restURL = strings.TrimSuffix(u, "/") }
}

// WithGraphQLBaseURL overrides the GraphQL endpoint.
func WithGraphQLBaseURL(u string) Option {
	return func(c *Client) { c.graphqlURL = u }
}

// WithPipeline sets the pipeline searched by the commit and branch lookups.
// A slug without an organization prefix is qualified with the client's org.
func WithPipeline(slug string) Option {
	return func(c *Client) { c.pipeline = slug }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a new Buildkite API client for an organization.
func NewClient(org, apiToken string, opts ...Option) *Client {
	c := &Client{
		org:        org,
		apiToken:   apiToken,
		restURL:    APIBaseURL,
		graphqlURL: GraphQLURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Organization returns the organization slug the client was built for.
func (c *Client) Organization() string {
	return c.org
}

// PipelinePath returns the org-qualified slug of the configured pipeline.
func (c *Client) PipelinePath() string {
	return Pipeline{Slug: c.pipeline, Organization: c.org}.Path()
}

// GetJobArtifactCount returns the number of artifacts uploaded by a command job.
func (c *Client) GetJobArtifactCount(ctx context.Context, jobID string) (int, error) {
	const op = "getJobArtifactCount"

	var data jobArtifactCountData
	if err := c.graphQL(ctx, op, jobArtifactCountQuery, map[string]any{"job_id": jobID}, &data); err != nil {
		return 0, err
	}
	if data.Job == nil {
		return 0, &MalformedResponseError{Op: op, Field: "job"}
	}
	if data.Job.Artifacts == nil {
		return 0, &MalformedResponseError{Op: op, Field: "job.artifacts"}
	}
	return data.Job.Artifacts.Count, nil
}

// GetJobArtifacts fetches the artifacts of a command job in a single page
// sized by the artifact count. When filter is non-nil only artifacts whose
// download URL matches it are returned. Order follows the API.
func (c *Client) GetJobArtifacts(ctx context.Context, jobID string, filter *regexp.Regexp) ([]Artifact, error) {
	const op = "getJobArtifacts"

	count, err := c.GetJobArtifactCount(ctx, jobID)
	if err != nil {
		return nil, err
	}
	// first: 0 is not a meaningful page request, so skip it.
	if count == 0 {
		return []Artifact{}, nil
	}

	vars := map[string]any{"job_id": jobID, "artifact_count": count}
	var data jobArtifactsData
	if err := c.graphQL(ctx, op, jobArtifactsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Job == nil {
		return nil, &MalformedResponseError{Op: op, Field: "job"}
	}
	if data.Job.Artifacts == nil {
		return nil, &MalformedResponseError{Op: op, Field: "job.artifacts"}
	}

	artifacts := make([]Artifact, 0, len(data.Job.Artifacts.Edges))
	for _, edge := range data.Job.Artifacts.Edges {
		if filter != nil && !filter.MatchString(edge.Node.DownloadURL) {
			continue
		}
		artifacts = append(artifacts, edge.Node)
	}
	return artifacts, nil
}

// GetBuildData fetches a build from the REST API, retried jobs included, and
// returns the decoded body as-is.
func (c *Client) GetBuildData(ctx context.Context, pipelineSlug string, buildNumber int) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/organizations/%s/pipelines/%s/builds/%d?include_retried_jobs=true",
		c.restURL, url.PathEscape(c.org), url.PathEscape(pipelineSlug), buildNumber)

	var out map[string]any
	if err := c.rest(ctx, "getBuildData", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetArtifactContent downloads an artifact, following redirects.
func (c *Client) GetArtifactContent(ctx context.Context, artifactURL string) ([]byte, error) {
	const op = "getArtifactContent"

	resp, err := c.do(ctx, op, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read artifact content: %w", op, err)
	}
	return data, nil
}

// CreateBuild creates a build on a pipeline and returns the decoded response.
// body is encoded as is: pass a *BuildRequest for the common fields, or a map
// for fields it lacks such as clean_checkout or pull_request_id.
func (c *Client) CreateBuild(ctx context.Context, pipelineSlug string, body any) (map[string]any, error) {
	const op = "createBuild"

	endpoint := fmt.Sprintf("%s/organizations/%s/pipelines/%s/builds",
		c.restURL, url.PathEscape(c.org), url.PathEscape(pipelineSlug))

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	var out map[string]any
	if err := c.rest(ctx, op, http.MethodPost, endpoint, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBuildURLFromCommit returns the URL of the most recent build of the
// configured pipeline for a commit.
func (c *Client) GetBuildURLFromCommit(ctx context.Context, commitSHA string) (string, error) {
	return c.buildURL(ctx, "getBuildFromCommit", buildFromCommitQuery, "commit_sha", "commit", commitSHA)
}

// GetBuildURLFromBranch returns the URL of the most recent build of the
// configured pipeline for a branch.
func (c *Client) GetBuildURLFromBranch(ctx context.Context, branch string) (string, error) {
	return c.buildURL(ctx, "getBuildFromBranch", buildFromBranchQuery, "branch", "branch", branch)
}

func (c *Client) buildURL(ctx context.Context, op, query, variable, kind, value string) (string, error) {
	vars := map[string]any{
		"pipeline": c.PipelinePath(),
		variable:   []string{value},
	}

	var data buildURLData
	if err := c.graphQL(ctx, op, query, vars, &data); err != nil {
		return "", err
	}
	if data.Pipeline == nil {
		return "", &MalformedResponseError{Op: op, Field: "pipeline"}
	}
	if data.Pipeline.Builds == nil || len(data.Pipeline.Builds.Edges) == 0 {
		return "", &NotFoundError{Kind: kind, Value: value}
	}
	return data.Pipeline.Builds.Edges[0].Node.URL, nil
}

// GetUserBuilds returns up to limit builds created by the token's user, most
// recent first. Unless showFinished is set only running or pending builds are
// returned.
func (c *Client) GetUserBuilds(ctx context.Context, limit int, showFinished bool) ([]Build, error) {
	const op = "getUserBuilds"

	if limit <= 0 {
		return nil, fmt.Errorf("%s: limit must be positive, got %d", op, limit)
	}

	stateFilter := []string{}
	if !showFinished {
		stateFilter = BuildRunningStates()
	}
	vars := map[string]any{
		"limit":        limit,
		"state_filter": stateFilter,
		"job_limit":    maxJobsPerBuild,
	}

	var data userBuildsData
	if err := c.graphQL(ctx, op, userBuildsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Viewer == nil || data.Viewer.User == nil {
		return nil, &MalformedResponseError{Op: op, Field: "viewer.user"}
	}
	if data.Viewer.User.Builds == nil {
		return nil, &MalformedResponseError{Op: op, Field: "viewer.user.builds"}
	}

	builds := make([]Build, 0, len(data.Viewer.User.Builds.Edges))
	for _, edge := range data.Viewer.User.Builds.Edges {
		if len(builds) >= limit {
			break
		}
		build, err := edge.Node.toBuild(op)
		if err != nil {
			return nil, err
		}
		if !showFinished && !IsBuildRunning(build.State) {
			c.log.Debug("%s: dropping build %d in state %s", op, build.Number, build.State)
			continue
		}
		builds = append(builds, build)
	}
	return builds, nil
}

// graphQL posts a query and decodes its data into out.
func (c *Client) graphQL(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("%s: failed to encode query: %w", op, err)
	}

	resp, err := c.do(ctx, op, http.MethodPost, c.graphqlURL, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Decode the envelope with a raw data payload so the typed shape can be
	// checked for presence separately from GraphQL errors.
	var envelope graphQLResponse[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return &GraphQLError{Op: op, Messages: msgs}
	}
	if envelope.Data == nil || string(*envelope.Data) == "null" {
		return &MalformedResponseError{Op: op, Field: "data"}
	}
	if err := json.Unmarshal(*envelope.Data, out); err != nil {
		return fmt.Errorf("%s: failed to decode data: %w", op, err)
	}
	return nil
}

// rest issues a REST call and decodes the JSON body into out.
func (c *Client) rest(ctx context.Context, op, method, endpoint string, body []byte, out any) error {
	resp, err := c.do(ctx, op, method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// do sends an authenticated request. Non-2xx responses become *HTTPError and
// the body is closed; otherwise the caller owns resp.Body.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("%s: %s %s", op, method, endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute request: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Debug("%s: status %d", op, resp.StatusCode)
		return nil, &HTTPError{
			Op:         op,
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}
	return resp, nil
}
