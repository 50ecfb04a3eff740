// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for palrun.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/palrun/palrun/internal/config"
	"github.com/palrun/palrun/internal/scan"
	"github.com/palrun/palrun/internal/scanner"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output.
	verbose bool

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "palrun",
		Short: "Discover and run your project's commands",
		Long: TitleStyle.Render("palrun") + SubtitleStyle.Render(" - discover and run your project's commands") + `

palrun scans your project tree for runnable commands - npm scripts,
make targets, Taskfile tasks, compose services, cargo and go verbs,
and more - and ranks them with fuzzy search that favors commands
close to where you are.

Multi-step workflows live in runbooks: YAML documents with typed
variables, conditions, confirmations, and per-step timeouts.

` + SubtitleStyle.Render("Examples:") + `
  palrun list               List every discovered command
  palrun search dply        Fuzzy-search discovered commands
  palrun run "npm test"     Run the best-matching command
  palrun runbook list       List available runbooks
  palrun runbook run deploy --var environment=staging`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runbookCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// newLogger builds the CLI progress logger honoring --verbose.
func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// loadConfig loads configuration, falling back to defaults with a warning
// so every command stays operational.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("warning: ")+fmt.Sprintf("failed to load config, using defaults: %v", err))
		return config.Default()
	}
	return cfg
}

// buildRegistry assembles the scanner registry: built-ins plus any plugin
// manifests from the config directory, restricted by scanner.enabled.
func buildRegistry(cfg config.Config) *scanner.Registry {
	reg := scanner.Builtin()

	pluginDir, err := config.PluginDir()
	if err == nil {
		plugins, err := scanner.LoadManifestDir(pluginDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("warning: ")+fmt.Sprintf("skipping plugin manifests: %v", err))
		}
		for _, p := range plugins {
			reg.Register(p)
		}
	}

	return reg.Enabled(cfg.Scanner.Enabled)
}

// runScan walks the current directory with the configured scanners.
func runScan(ctx context.Context, cfg config.Config) (*scan.Snapshot, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	snap, err := scan.Run(ctx, cwd, cfg.ScanConfig(), buildRegistry(cfg))
	if err != nil {
		return nil, err
	}

	for _, diag := range snap.Diagnostics {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("warning: ")+fmt.Sprintf("scanner %s failed in %s: %v", diag.Scanner, diag.Dir, diag.Err))
	}
	return snap, nil
}
