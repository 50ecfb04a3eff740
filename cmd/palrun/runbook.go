// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/palrun/palrun/internal/runner"
	"github.com/palrun/palrun/internal/runtime"
	"github.com/palrun/palrun/pkg/runbook"
)

var (
	// runbookVars are --var name=value overrides.
	runbookVars []string
	// runbookDryRun plans the run without executing anything.
	runbookDryRun bool
	// runbookYes disables prompts and confirmations.
	runbookYes bool

	// runbookCmd groups the runbook subcommands.
	runbookCmd = &cobra.Command{
		Use:   "runbook",
		Short: "Work with multi-step runbooks",
		Long: `Runbooks are YAML workflows stored in .palrun/runbooks/ or runbooks/
with typed variables, conditional steps, confirmations, and timeouts.`,
	}

	// runbookListCmd lists discovered runbooks.
	runbookListCmd = &cobra.Command{
		Use:   "list",
		Short: "List available runbooks",
		RunE:  runRunbookList,
	}

	// runbookShowCmd prints one runbook's variables and steps.
	runbookShowCmd = &cobra.Command{
		Use:   "show <name>",
		Short: "Show a runbook's variables and steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunbookShow,
	}

	// runbookRunCmd executes one runbook.
	runbookRunCmd = &cobra.Command{
		Use:   "run <name>",
		Short: "Execute a runbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunbookRun,
	}
)

func init() {
	runbookRunCmd.Flags().StringArrayVar(&runbookVars, "var", nil, "variable override (name=value, repeatable)")
	runbookRunCmd.Flags().BoolVar(&runbookDryRun, "dry-run", false, "resolve and plan without executing")
	runbookRunCmd.Flags().BoolVarP(&runbookYes, "yes", "y", false, "run without prompts or confirmations")

	runbookCmd.AddCommand(runbookListCmd)
	runbookCmd.AddCommand(runbookShowCmd)
	runbookCmd.AddCommand(runbookRunCmd)
}

// discoverRunbooks loads every runbook under the current directory.
func discoverRunbooks() ([]runbook.File, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return runbook.Discover(cwd), nil
}

// findRunbook resolves a runbook by name.
func findRunbook(name string) (*runbook.Runbook, error) {
	files, err := discoverRunbooks()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Err != nil {
			continue
		}
		if f.Runbook.Name == name {
			return f.Runbook, nil
		}
	}
	return nil, fmt.Errorf("no runbook named %q", name)
}

func runRunbookList(cmd *cobra.Command, _ []string) error {
	files, err := discoverRunbooks()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("no runbooks found"))
		return nil
	}

	for _, f := range files {
		if f.Err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), ErrorStyle.Render("broken")+"  "+f.Path+SubtitleStyle.Render("  # "+f.Err.Error()))
			continue
		}
		line := CmdStyle.Render(f.Runbook.Name)
		if f.Runbook.Description != "" {
			line += SubtitleStyle.Render("  " + f.Runbook.Description)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func runRunbookShow(cmd *cobra.Command, args []string) error {
	rb, err := findRunbook(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render(rb.Name))
	if rb.Description != "" {
		fmt.Fprintln(out, SubtitleStyle.Render(rb.Description))
	}

	if len(rb.Variables) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, TitleStyle.Render("variables"))
		for _, name := range sortedVariableNames(rb) {
			spec := rb.Variables[name]
			line := "  " + CmdStyle.Render(name) + SubtitleStyle.Render("  ("+string(spec.EffectiveType())+")")
			if spec.Required {
				line += WarningStyle.Render("  required")
			}
			if spec.Default != "" {
				line += SubtitleStyle.Render("  default: " + spec.Default)
			}
			if len(spec.Options) > 0 {
				line += SubtitleStyle.Render("  options: " + strings.Join(spec.Options, ", "))
			}
			fmt.Fprintln(out, line)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render("steps"))
	for i, step := range rb.Steps {
		line := fmt.Sprintf("  %d. ", i+1) + CmdStyle.Render(step.Name) + SubtitleStyle.Render("  "+step.Command)
		if step.Condition != "" {
			line += SubtitleStyle.Render("  if: " + step.Condition)
		}
		if step.Confirm {
			line += WarningStyle.Render("  confirm")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runRunbookRun(cmd *cobra.Command, args []string) error {
	rb, err := findRunbook(args[0])
	if err != nil {
		return err
	}

	overrides, err := parseVarFlags(runbookVars)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	rt, err := runtime.DefaultRegistry().Get(cfg.RuntimeType())
	if err != nil {
		return err
	}

	opts := runner.Options{
		Overrides: overrides,
		DryRun:    runbookDryRun,
		Runtime:   rt,
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		Logger:    newLogger(),
	}
	if !runbookYes {
		opts.Prompter = newStdinPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	report, err := runner.Run(cmd.Context(), rb, opts)
	if err != nil {
		return err
	}

	if runbookDryRun {
		renderPlan(cmd, report)
		return nil
	}
	renderReport(cmd, report)

	if report.Err != nil {
		return &ExitError{Code: 1, Err: report.Err}
	}
	return nil
}

// renderPlan prints the dry-run plan.
func renderPlan(cmd *cobra.Command, report *runner.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("plan: "+report.Runbook))
	for _, planned := range report.Plan {
		if !planned.WillRun {
			fmt.Fprintln(out, SubtitleStyle.Render("  skip  "+planned.Name+"  ("+planned.Reason+")"))
			continue
		}
		line := SuccessStyle.Render("  run   ") + CmdStyle.Render(planned.Command)
		if planned.WorkDir != "" {
			line += SubtitleStyle.Render("  in " + planned.WorkDir)
		}
		if planned.Confirm {
			line += WarningStyle.Render("  confirm")
		}
		fmt.Fprintln(out, line)
	}
}

// renderReport prints the per-step outcomes.
func renderReport(cmd *cobra.Command, report *runner.Report) {
	out := cmd.OutOrStdout()
	for _, res := range report.Results {
		var status string
		switch res.Status {
		case runner.StatusSuccess:
			status = SuccessStyle.Render("ok      ")
		case runner.StatusSkipped:
			status = SubtitleStyle.Render("skipped ")
		case runner.StatusNotRun:
			status = SubtitleStyle.Render("not run ")
		case runner.StatusTimedOut:
			status = ErrorStyle.Render("timeout ")
		default:
			status = ErrorStyle.Render("failed  ")
		}
		fmt.Fprintln(out, status+res.Name)
	}

	if report.Err != nil {
		fmt.Fprintln(out, ErrorStyle.Render("runbook failed: ")+report.Err.Error())
	} else {
		fmt.Fprintln(out, SuccessStyle.Render("runbook completed"))
	}
}

// parseVarFlags splits repeated --var name=value flags.
func parseVarFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: expected name=value", f)
		}
		overrides[name] = value
	}
	return overrides, nil
}

// sortedVariableNames returns the runbook's variable names in sorted order.
func sortedVariableNames(rb *runbook.Runbook) []string {
	names := make([]string, 0, len(rb.Variables))
	for name := range rb.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
