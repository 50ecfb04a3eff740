// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/palrun/palrun/internal/config"
	"github.com/palrun/palrun/internal/scan"
	"github.com/palrun/palrun/internal/search"
)

var (
	// searchLimit caps the number of results shown.
	searchLimit int
	// searchNoContext disables the directory-proximity ranking bonus.
	searchNoContext bool

	// searchCmd fuzzy-searches the discovered commands.
	searchCmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search discovered commands",
		Long: `Scan the current directory tree and rank the discovered commands
against the query. Matching is smart-case by default; results close
to the current directory rank higher.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
)

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchNoContext, "no-context", false, "disable directory-proximity ranking")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg := loadConfig()
	snap, err := runScan(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	matches, err := searchSnapshot(query, snap, cfg)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("no matches for ")+CmdStyle.Render(query))
		return nil
	}

	if searchLimit > 0 && len(matches) > searchLimit {
		matches = matches[:searchLimit]
	}
	for _, m := range matches {
		line := CmdStyle.Render(m.Command.Text)
		if m.Command.Description != "" {
			line += SubtitleStyle.Render("  # " + m.Command.Description)
		}
		line += SubtitleStyle.Render("  [" + string(m.Command.Source) + "]")
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

// searchSnapshot runs a ranked search with the configured options.
func searchSnapshot(query string, snap *scan.Snapshot, cfg config.Config) ([]search.Match, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	return search.Search(query, snap, search.Options{
		ContextEnabled: cfg.Search.ContextEnabled && !searchNoContext,
		CurrentDir:     cwd,
		MinScore:       cfg.Search.MinScore,
		Mode:           cfg.ScanConfig().CaseMode,
	}), nil
}
