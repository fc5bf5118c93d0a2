package main

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"kite/src/buildkite"
	"kite/src/git"
	"kite/src/logger"
	"kite/src/mcp"
	"kite/src/tui"
)

const noBuildsMessage = "No builds found, use --show-finished to show previous builds"

var commitCmd = &cobra.Command{
	Use:   "commit [sha]",
	Short: "Open the build for a commit (default: HEAD)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := newClient(appConfig, log)
		if err != nil {
			return err
		}

		var sha string
		if len(args) == 1 {
			sha = args[0]
		} else if sha, err = git.HeadCommit(ctx, ""); err != nil {
			return err
		}

		u, err := client.GetBuildURLFromCommit(ctx, sha)
		if err != nil {
			return reportLookup(cmd.OutOrStdout(), err)
		}
		openURL(cmd.OutOrStdout(), u, noBrowser, log)
		return nil
	},
}

var branchCmd = &cobra.Command{
	Use:   "branch [name]",
	Short: "Open the latest build for a branch (default: current branch)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := newClient(appConfig, log)
		if err != nil {
			return err
		}

		var branch string
		if len(args) == 1 {
			branch = args[0]
		} else if branch, err = git.CurrentBranch(ctx, ""); err != nil {
			return err
		}

		u, err := client.GetBuildURLFromBranch(ctx, branch)
		if err != nil {
			return reportLookup(cmd.OutOrStdout(), err)
		}
		openURL(cmd.OutOrStdout(), u, noBrowser, log)
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <number>",
	Short: "Open a build of the configured pipeline by number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseBuildNumber(args[0])
		if err != nil {
			return err
		}
		openURL(cmd.OutOrStdout(), buildPageURL(appConfig, n), noBrowser, log)
		return nil
	},
}

var (
	buildsLimit        int
	buildsShowFinished bool
)

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "Pick one of your recent builds and open it",
	Long: `Lists your most recent builds, running ones only unless --show-finished
is given, and opens the one you pick.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(appConfig, log)
		if err != nil {
			return err
		}

		limit := appConfig.BuildLimit
		if cmd.Flags().Changed("limit") {
			limit = buildsLimit
		}
		if limit <= 0 {
			return fmt.Errorf("invalid limit %d: must be positive", limit)
		}

		builds, err := client.GetUserBuilds(cmd.Context(), limit, buildsShowFinished)
		if err != nil {
			return buildkite.WrapError(err)
		}
		if len(builds) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), noBuildsMessage)
			return nil
		}

		choice, err := tui.Pick(builds)
		if errors.Is(err, tui.ErrNoSelection) {
			return nil
		}
		if err != nil {
			return err
		}
		openURL(cmd.OutOrStdout(), choice.URL(), noBrowser, log)
		return nil
	},
}

var (
	artifactsFilter   string
	artifactsDownload string
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts <job-id>",
	Short: "List, and optionally download, the artifacts of a command job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter *regexp.Regexp
		if artifactsFilter != "" {
			re, err := regexp.Compile(artifactsFilter)
			if err != nil {
				return fmt.Errorf("invalid --filter: %w", err)
			}
			filter = re
		}

		client, err := newClient(appConfig, log)
		if err != nil {
			return err
		}

		artifacts, err := client.GetJobArtifacts(cmd.Context(), args[0], filter)
		if err != nil {
			return buildkite.WrapError(err)
		}

		if artifactsDownload == "" {
			for _, a := range artifacts {
				fmt.Fprintln(cmd.OutOrStdout(), a.DownloadURL)
			}
			return nil
		}

		written, err := downloadArtifacts(cmd.Context(), client, artifacts, artifactsDownload)
		for _, p := range written {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		if err != nil {
			return buildkite.WrapError(err)
		}
		log.Info("downloaded %d artifacts to %s", len(written), artifactsDownload)
		return nil
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve kite lookups as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol
		client, err := newClient(appConfig, logger.NewSilentLogger())
		if err != nil {
			return err
		}
		return mcp.NewServer(client, version).Run()
	},
}

func init() {
	buildsCmd.Flags().IntVar(&buildsLimit, "limit", 10, "Limit the number of builds")
	buildsCmd.Flags().BoolVar(&buildsShowFinished, "show-finished", false, "Include finished builds")

	artifactsCmd.Flags().StringVar(&artifactsFilter, "filter", "", "Only list artifacts whose download URL matches this regular expression")
	artifactsCmd.Flags().StringVar(&artifactsDownload, "download", "", "Download matching artifacts into this directory")
}
