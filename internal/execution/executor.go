// Package execution carries out phases for the phase sequence.
//
// The coordinator only announces that a phase should run; [Executor] is the
// collaborator that does the work. It moves the phase to running, hands it to
// a [PhaseRunner], and records completed or error on the coordinator.
//
// Key concepts:
//   - [Executor.Begin] and [Executor.Finish] bracket a run so an interactive
//     host can run the phase on its own goroutine and report back
//   - [Executor.Execute] does both synchronously
//   - [Executor.RunSequence] drives every remaining phase in order, stopping
//     on the first failure
package execution

import (
	"context"
	"errors"
	"fmt"

	"graspctl/internal/logging"
	"graspctl/internal/phase"
)

// ErrSequenceComplete is returned by [Executor.RunSequence] when every phase
// has already completed.
var ErrSequenceComplete = errors.New("phase sequence is already complete")

// ErrNotRunnable is returned when a phase's status does not allow it to start.
var ErrNotRunnable = errors.New("phase cannot be started")

// PhaseRunner carries out a single phase. A nil error means the phase
// completed.
type PhaseRunner interface {
	RunPhase(ctx context.Context, name string) error
}

// ProgressCallback is invoked before each phase of a sequence begins.
//
// The callback receives stepIndex (1-based), totalSteps count, and the phase name.
type ProgressCallback func(stepIndex, totalSteps int, name string)

// Executor runs phases of a [phase.Coordinator].
type Executor struct {
	coord            *phase.Coordinator
	runner           PhaseRunner
	progressCallback ProgressCallback
	logger           *logging.Logger
}

// NewExecutor creates an Executor for the coordinator's phases.
func NewExecutor(coord *phase.Coordinator, runner PhaseRunner) *Executor {
	return &Executor{coord: coord, runner: runner}
}

// SetProgressCallback configures an optional progress callback for
// [Executor.RunSequence].
func (e *Executor) SetProgressCallback(cb ProgressCallback) {
	e.progressCallback = cb
}

// SetLogger configures the logger used for phase outcomes.
func (e *Executor) SetLogger(l *logging.Logger) {
	e.logger = l
}

// Runner returns the configured phase runner.
func (e *Executor) Runner() PhaseRunner {
	return e.runner
}

// Begin moves a phase to running.
//
// A phase in error is retried by passing it through ready first. Any other
// status that cannot move to running yields [ErrNotRunnable].
func (e *Executor) Begin(name string) error {
	st, err := e.coord.Status(name)
	if err != nil {
		return err
	}
	if st == phase.StatusError {
		if err := e.coord.SetStatus(name, phase.StatusReady); err != nil {
			return err
		}
		st = phase.StatusReady
	}
	if !phase.CanTransition(st, phase.StatusRunning) {
		return fmt.Errorf("%w: %s is %s", ErrNotRunnable, name, st)
	}
	e.logger.WithPhase(name).Info("phase started")
	return e.coord.SetStatus(name, phase.StatusRunning)
}

// Finish records the outcome of a run started with [Executor.Begin]. It
// returns runErr wrapped with the phase name, or nil on success.
func (e *Executor) Finish(name string, runErr error) error {
	log := e.logger.WithPhase(name)
	if runErr != nil {
		log.Error("phase failed", "error", runErr)
		if err := e.coord.SetStatus(name, phase.StatusError); err != nil {
			return err
		}
		return fmt.Errorf("phase %s failed: %w", name, runErr)
	}
	log.Info("phase completed")
	return e.coord.SetStatus(name, phase.StatusCompleted)
}

// Execute runs one phase to completion.
func (e *Executor) Execute(ctx context.Context, name string) error {
	if err := e.Begin(name); err != nil {
		return err
	}
	return e.Finish(name, e.runner.RunPhase(ctx, name))
}

// Steps returns the phases that have not completed, in sequence order,
// without running anything.
func (e *Executor) Steps() []phase.Entry {
	var steps []phase.Entry
	for _, entry := range e.coord.Entries() {
		if entry.Status != phase.StatusCompleted {
			steps = append(steps, entry)
		}
	}
	return steps
}

// RunSequence runs every phase that has not completed, in order.
//
// Each phase is announced through [phase.Coordinator.RequestExecution] so
// other listeners see the same intent the panel would produce, then made
// ready if it was not and executed. RunSequence stops on the first error.
// Returns [ErrSequenceComplete] when nothing is left to run.
func (e *Executor) RunSequence(ctx context.Context) error {
	steps := e.Steps()
	if len(steps) == 0 {
		return ErrSequenceComplete
	}
	return e.run(ctx, steps)
}

// RunPhases runs the named phases in the given order, stopping on the first
// error. Completed phases are skipped.
func (e *Executor) RunPhases(ctx context.Context, names ...string) error {
	var steps []phase.Entry
	for _, name := range names {
		st, err := e.coord.Status(name)
		if err != nil {
			return err
		}
		if st != phase.StatusCompleted {
			steps = append(steps, phase.Entry{Name: name, Status: st})
		}
	}
	if len(steps) == 0 {
		return ErrSequenceComplete
	}
	return e.run(ctx, steps)
}

func (e *Executor) run(ctx context.Context, steps []phase.Entry) error {
	total := len(steps)
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.progressCallback != nil {
			e.progressCallback(i+1, total, step.Name)
		}

		st, err := e.coord.Status(step.Name)
		if err != nil {
			return err
		}
		if st == phase.StatusNotReady {
			if err := e.coord.SetStatus(step.Name, phase.StatusReady); err != nil {
				return err
			}
		}
		if err := e.coord.RequestExecution(step.Name); err != nil {
			return err
		}
		if err := e.Execute(ctx, step.Name); err != nil {
			return err
		}
	}
	return nil
}
