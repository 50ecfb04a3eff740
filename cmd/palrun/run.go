// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/palrun/palrun/internal/runtime"
)

var (
	// runDryRun prints the selected command without executing it.
	runDryRun bool
	// runYes skips the execution confirmation.
	runYes bool

	// runCmd executes the best-matching discovered command.
	runCmd = &cobra.Command{
		Use:   "run <query>",
		Short: "Run the best-matching discovered command",
		Long: `Scan the current directory tree, pick the command that best matches
the query, and execute it in its own directory. The selection is shown
and confirmed before anything runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}
)

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "show the selected command without executing it")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "execute without confirming")
}

func runRun(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("no command matches %q", query)
	}

	selected := matches[0].Command
	fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("selected: ")+CmdStyle.Render(selected.Text)+
		SubtitleStyle.Render(" (in "+selected.WorkDir+")"))

	if runDryRun {
		return nil
	}
	if !runYes {
		prompter := newStdinPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		approved, err := prompter.Confirm(selected.Name, selected.Text)
		if err != nil {
			return err
		}
		if !approved {
			fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("aborted"))
			return nil
		}
	}

	rt, err := runtime.DefaultRegistry().Get(cfg.RuntimeType())
	if err != nil {
		return err
	}
	res := rt.Execute(cmd.Context(), runtime.Spec{
		Command: selected.Text,
		WorkDir: selected.WorkDir,
		Stdin:   os.Stdin,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})
	if res.Err != nil {
		return res.Err
	}
	if res.ExitCode != 0 {
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}
