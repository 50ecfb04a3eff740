// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/palrun/palrun/internal/runtime"
	"github.com/palrun/palrun/pkg/runbook"
)

// Step status constants. Every step of a run gets exactly one.
const (
	// StatusSuccess means the step ran and exited zero.
	StatusSuccess StepStatus = "success"
	// StatusFailed means the step ran and failed.
	StatusFailed StepStatus = "failed"
	// StatusSkipped means a condition or declined confirmation kept the
	// step from running.
	StatusSkipped StepStatus = "skipped"
	// StatusTimedOut means the step's timeout expired.
	StatusTimedOut StepStatus = "timed_out"
	// StatusNotRun means an earlier abort kept the step from being
	// attempted.
	StatusNotRun StepStatus = "not_run"
)

type (
	// StepStatus is the terminal state of one step in a run.
	StepStatus string

	// StepResult records the outcome of one step.
	StepResult struct {
		Name     string
		Status   StepStatus
		ExitCode int
		Output   string
		Duration time.Duration
		Err      error
	}

	// PlannedStep is one dry-run plan entry: the step after variable
	// interpolation, with its condition already evaluated.
	PlannedStep struct {
		Name    string
		Command string
		WorkDir string
		Confirm bool
		WillRun bool
		Reason  string
	}

	// Report is the outcome of one run. Results always has one entry per
	// runbook step, in declared order. Plan is populated for dry runs.
	Report struct {
		Runbook   string
		Values    map[string]string
		Results   []StepResult
		Plan      []PlannedStep
		Completed bool
		Err       error
	}

	// Options configures one run.
	Options struct {
		// Overrides are variable values supplied up front; they beat
		// prompts and defaults.
		Overrides map[string]string
		// DryRun resolves and plans without executing anything.
		DryRun bool
		// Prompter answers variable prompts and confirmations. Nil means
		// non-interactive: prompts are skipped and confirm steps run
		// without asking.
		Prompter Prompter
		// Runtime executes step commands. Required unless DryRun.
		Runtime runtime.Runtime
		// Stdout and Stderr receive step output as it happens; nil
		// captures into the results instead.
		Stdout io.Writer
		Stderr io.Writer
		// Logger reports step progress. Nil disables progress logging.
		Logger *log.Logger
	}
)

// Run validates rb, resolves its variables, and executes its steps in
// order. Validation and resolution failures return an error and no
// report; step failures are recorded in the report.
func Run(ctx context.Context, rb *runbook.Runbook, opts Options) (*Report, error) {
	if err := rb.Validate(); err != nil {
		return nil, err
	}

	values, err := resolveVariables(rb, opts.Overrides, opts.Prompter)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	report := &Report{
		Runbook: rb.Name,
		Values:  values,
		Results: make([]StepResult, len(rb.Steps)),
	}
	for i, step := range rb.Steps {
		report.Results[i] = StepResult{Name: step.Name, Status: StatusNotRun}
	}

	if opts.DryRun {
		return planRun(rb, values, report)
	}
	if opts.Runtime == nil {
		return nil, fmt.Errorf("no runtime configured")
	}

	for i, step := range rb.Steps {
		result := &report.Results[i]

		if step.Condition != "" {
			ok, err := evalCondition(step.Condition, values)
			if err != nil {
				// Validation already parsed every condition; this is a
				// programming error, not a user one.
				return nil, err
			}
			if !ok {
				result.Status = StatusSkipped
				logger.Debug("step skipped", "step", step.Name, "condition", step.Condition)
				continue
			}
		}

		cmdText := interpolate(step.Command, values)

		if step.Confirm && opts.Prompter != nil {
			approved, err := opts.Prompter.Confirm(step.Name, cmdText)
			if err != nil {
				return nil, fmt.Errorf("confirming step %q: %w", step.Name, err)
			}
			if !approved {
				result.Status = StatusSkipped
				if step.Optional {
					logger.Info("step declined", "step", step.Name)
					continue
				}
				report.Err = &RunbookFailedError{Step: step.Name, Cause: fmt.Errorf("confirmation declined")}
				return report, nil
			}
		}

		logger.Info("running step", "step", step.Name, "command", cmdText)
		res := opts.Runtime.Execute(ctx, runtime.Spec{
			Command: cmdText,
			WorkDir: interpolate(step.WorkingDir, values),
			Env:     interpolateEnv(step.Env, values),
			Timeout: time.Duration(step.Timeout) * time.Second,
			Stdout:  opts.Stdout,
			Stderr:  opts.Stderr,
		})

		result.ExitCode = res.ExitCode
		result.Output = res.Output
		result.Duration = res.Duration
		result.Err = res.Err

		switch {
		case res.TimedOut:
			result.Status = StatusTimedOut
		case res.Success():
			result.Status = StatusSuccess
		default:
			result.Status = StatusFailed
			if result.Err == nil {
				result.Err = fmt.Errorf("exit code %d", res.ExitCode)
			}
		}

		if result.Status == StatusSuccess {
			continue
		}
		if step.Optional || step.ContinueOnError {
			logger.Warn("step failed, continuing", "step", step.Name, "status", result.Status)
			continue
		}
		report.Err = &RunbookFailedError{Step: step.Name, Cause: result.Err}
		return report, nil
	}

	report.Completed = true
	return report, nil
}

// planRun fills in the dry-run plan: each step's interpolated command and
// whether its condition lets it run. Nothing executes.
func planRun(rb *runbook.Runbook, values map[string]string, report *Report) (*Report, error) {
	for _, step := range rb.Steps {
		planned := PlannedStep{
			Name:    step.Name,
			Command: interpolate(step.Command, values),
			WorkDir: interpolate(step.WorkingDir, values),
			Confirm: step.Confirm,
			WillRun: true,
		}
		if step.Condition != "" {
			ok, err := evalCondition(step.Condition, values)
			if err != nil {
				return nil, err
			}
			if !ok {
				planned.WillRun = false
				planned.Reason = fmt.Sprintf("condition %q is false", step.Condition)
			}
		}
		report.Plan = append(report.Plan, planned)
	}
	report.Completed = true
	return report, nil
}
