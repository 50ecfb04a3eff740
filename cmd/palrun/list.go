// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/palrun/palrun/pkg/command"
)

var (
	// listSource restricts the listing to one scanner source.
	listSource string

	// listCmd lists every discovered command grouped by directory.
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List all discovered commands",
		Long: `Scan the current directory tree and list every runnable command
grouped by the directory it was discovered in.`,
		RunE: runList,
	}
)

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "only show commands from one source (npm, make, go, ...)")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	snap, err := runScan(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	var lastOrigin string
	shown := 0
	for _, c := range snap.Commands {
		if listSource != "" && c.Source != command.Source(listSource) {
			continue
		}
		if c.Origin != lastOrigin {
			rel, err := filepath.Rel(snap.Root, c.Origin)
			if err != nil {
				rel = c.Origin
			}
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), TitleStyle.Render(rel))
			lastOrigin = c.Origin
		}

		line := "  " + CmdStyle.Render(c.Text)
		if c.Description != "" {
			line += SubtitleStyle.Render("  # " + c.Description)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		shown++
	}

	if shown == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("no commands discovered"))
	}
	return nil
}
