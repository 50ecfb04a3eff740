// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/palrun/palrun/pkg/runbook"
)

// stdinPrompter answers runner prompts by reading lines from an input
// stream. It implements runner.Prompter.
type stdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newStdinPrompter(in io.Reader, out io.Writer) *stdinPrompter {
	return &stdinPrompter{in: bufio.NewReader(in), out: out}
}

// Variable asks for one variable value. Select variables display their
// options; an empty answer defers to the declared default.
func (p *stdinPrompter) Variable(name string, spec runbook.VariableSpec) (string, error) {
	prompt := spec.Prompt
	if prompt == "" {
		prompt = "Value for " + name
	}

	fmt.Fprint(p.out, TitleStyle.Render(prompt))
	if len(spec.Options) > 0 {
		fmt.Fprint(p.out, SubtitleStyle.Render(" ("+strings.Join(spec.Options, "/")+")"))
	}
	if spec.Default != "" {
		fmt.Fprint(p.out, SubtitleStyle.Render(" [default: "+spec.Default+"]"))
	}
	fmt.Fprint(p.out, ": ")

	return p.readLine()
}

// Confirm asks for approval before a step runs. Only an explicit yes
// approves.
func (p *stdinPrompter) Confirm(step, command string) (bool, error) {
	fmt.Fprintln(p.out, WarningStyle.Render("about to run ")+CmdStyle.Render(command))
	fmt.Fprint(p.out, TitleStyle.Render("Proceed with "+step+"?")+SubtitleStyle.Render(" [y/N]")+": ")

	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *stdinPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
