package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// CommandLookup resolves the shell command for a phase.
type CommandLookup func(name string) (string, bool)

// CommandRunner runs each phase's shell command through sh -c.
//
// Phases without a command succeed immediately, which is how operator-only
// phases such as choosing a grasp are modelled.
type CommandRunner struct {
	lookup CommandLookup

	// Dir is the working directory for commands. Empty uses the current one.
	Dir string

	// Stdout and Stderr receive command output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommandRunner creates a runner that resolves commands with lookup.
func NewCommandRunner(lookup CommandLookup) *CommandRunner {
	return &CommandRunner{lookup: lookup}
}

// Command returns the command configured for a phase.
func (r *CommandRunner) Command(name string) (string, bool) {
	if r.lookup == nil {
		return "", false
	}
	return r.lookup(name)
}

// RunPhase runs the phase's command and waits for it. A non-zero exit is
// reported with its exit code; cancelling ctx kills the command.
func (r *CommandRunner) RunPhase(ctx context.Context, name string) error {
	command, ok := r.Command(name)
	if !ok {
		return nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("command %q exited with code %d", command, exitErr.ExitCode())
		}
		return fmt.Errorf("command %q: %w", command, err)
	}
	return nil
}
