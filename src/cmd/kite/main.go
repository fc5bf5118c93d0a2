// Package main provides the kite CLI: quick links from a checkout to its
// Buildkite builds.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kite/src/config"
	"kite/src/logger"
)

var version = "dev"

var (
	// Application configuration, loaded before any command runs
	appConfig *config.Config
	log       logger.Logger

	configPath string
	orgFlag    string
	pipeFlag   string
	debug      bool
	noBrowser  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kite",
	Short: "kite - open Buildkite builds from the terminal",
	Long: `kite finds Buildkite builds for the current commit or branch, lists
your running builds, and fetches job artifacts.

Configuration is read from ~/.config/kite/config.toml and the environment
(BUILDKITE_TOKEN, BUILDKITE_ORG, KITE_PIPELINE, ...). Flags win over both.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if cmd.Flags().Changed("org") {
			cfg.Organization = orgFlag
		}
		if cmd.Flags().Changed("pipeline") {
			cfg.Pipeline = pipeFlag
		}
		if debug {
			cfg.LogLevel = "debug"
		}
		appConfig = cfg
		log = logger.NewConsoleLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&orgFlag, "org", "", "Buildkite organization slug (overrides config)")
	rootCmd.PersistentFlags().StringVar(&pipeFlag, "pipeline", "", "Pipeline slug searched by commit, branch and build (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log API requests")
	rootCmd.PersistentFlags().BoolVar(&noBrowser, "no-browser", false, "Print build URLs instead of opening them")

	rootCmd.AddCommand(commitCmd, branchCmd, buildCmd, buildsCmd, artifactsCmd, mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
