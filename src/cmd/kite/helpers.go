package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/pkg/browser"

	"kite/src/buildkite"
	"kite/src/config"
	"kite/src/logger"
)

// newClient validates cfg and builds an API client from it.
func newClient(cfg *config.Config, l logger.Logger) (*buildkite.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	opts := []buildkite.Option{
		buildkite.WithPipeline(cfg.Pipeline),
		buildkite.WithLogger(l),
	}
	if cfg.RESTBaseURL != "" {
		opts = append(opts, buildkite.WithRESTBaseURL(cfg.RESTBaseURL))
	}
	if cfg.GraphQLBaseURL != "" {
		opts = append(opts, buildkite.WithGraphQLBaseURL(cfg.GraphQLBaseURL))
	}
	return buildkite.NewClient(cfg.Organization, cfg.Token, opts...), nil
}

// parseBuildNumber accepts positive decimal build numbers only.
func parseBuildNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid build number %q: must be a positive integer", s)
	}
	return n, nil
}

// buildPageURL returns the web URL of build number n in the configured pipeline.
func buildPageURL(cfg *config.Config, n int) string {
	b := buildkite.Build{
		Number:   n,
		Pipeline: buildkite.Pipeline{Slug: cfg.Pipeline, Organization: cfg.Organization},
	}
	return b.URL()
}

// openURL opens u in the default browser, or prints it when the browser is
// disabled or cannot be started.
func openURL(w io.Writer, u string, disabled bool, l logger.Logger) {
	if disabled {
		fmt.Fprintln(w, u)
		return
	}
	if err := browser.OpenURL(u); err != nil {
		l.Debug("open browser: %v", err)
		fmt.Fprintln(w, u)
	}
}

// reportLookup prints not-found results as a single line and succeeds; any
// other error is returned for the caller to fail on.
func reportLookup(w io.Writer, err error) error {
	if errors.Is(err, buildkite.ErrNotFound) {
		fmt.Fprintln(w, err)
		return nil
	}
	return buildkite.WrapError(err)
}

// artifactFileName derives a local file name from a download URL, falling
// back to artifact-<index> when the URL has no usable path.
func artifactFileName(downloadURL string, index int) string {
	fallback := fmt.Sprintf("artifact-%d", index)
	u, err := url.Parse(downloadURL)
	if err != nil {
		return fallback
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return fallback
	}
	return base
}

type artifactFetcher interface {
	GetArtifactContent(ctx context.Context, artifactURL string) ([]byte, error)
}

// downloadArtifacts writes each artifact into dir and returns the written paths.
func downloadArtifacts(ctx context.Context, client artifactFetcher, artifacts []buildkite.Artifact, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download directory: %w", err)
	}

	written := make([]string, 0, len(artifacts))
	seen := make(map[string]bool)
	for i, a := range artifacts {
		content, err := client.GetArtifactContent(ctx, a.DownloadURL)
		if err != nil {
			return written, err
		}
		name := uniqueName(artifactFileName(a.DownloadURL, i), i, seen)
		seen[name] = true
		dest := filepath.Join(dir, name)
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", dest, err)
		}
		written = append(written, dest)
	}
	return written, nil
}

// uniqueName prefixes name with index, then a counter, until it is unused.
func uniqueName(name string, index int, seen map[string]bool) string {
	if !seen[name] {
		return name
	}
	candidate := fmt.Sprintf("%d-%s", index, name)
	for n := 1; seen[candidate]; n++ {
		candidate = fmt.Sprintf("%d-%d-%s", index, n, name)
	}
	return candidate
}
