package cli

import (
	"io"
	"os"

	"graspctl/internal/bridge"
	"graspctl/internal/candidates"
	"graspctl/internal/control"
	"graspctl/internal/execution"
	"graspctl/internal/logging"
	"graspctl/internal/phase"
)

// Logger returns the session logger, creating it on first use. Headless
// commands log to the error stream when no log directory is configured.
func (a *App) Logger() *logging.Logger {
	if a.logger == nil {
		a.logger = a.newLogger(a.Err)
	}
	return a.logger
}

func (a *App) newLogger(fallback io.Writer) *logging.Logger {
	l, err := logging.NewLogger(a.Config.Log.Dir, a.Config.Log.Level, fallback)
	if err != nil {
		if fallback == nil {
			fallback = io.Discard
		}
		l = logging.NewWithWriter(fallback, a.Config.Log.Level)
		l.Warn("falling back to stream logging", "error", err)
	}
	return l.WithSession(a.Session)
}

func (a *App) closeLogger() {
	_ = a.logger.Close()
	a.logger = nil
}

// phaseNames returns the phase order from the plan, or from configuration
// when no plan was given.
func (a *App) phaseNames() []string {
	if a.plan != nil {
		return a.plan.Phases()
	}
	return a.Config.Phases.Names
}

// commandFor resolves a phase's shell command from the plan, falling back to
// configuration.
func (a *App) commandFor(name string) (string, bool) {
	if a.plan != nil {
		if step := a.plan.Step(name); step != nil && step.Command != "" {
			return step.Command, true
		}
	}
	return a.Config.Command(name)
}

func (a *App) newCoordinator() (*phase.Coordinator, error) {
	return phase.NewCoordinator(a.phaseNames(),
		phase.WithAutomaticTransitions(a.Config.Phases.AutomaticTransitions),
		phase.WithFirstReady(a.Config.Phases.FirstReady),
	)
}

func (a *App) newControls() []*control.RangeControl {
	controls := make([]*control.RangeControl, 0, len(a.Config.Controls))
	for _, c := range a.Config.Controls {
		controls = append(controls, control.New(c.Label, c.Min, c.Max, c.Default))
	}
	return controls
}

func (a *App) newExecutor(coord *phase.Coordinator) *execution.Executor {
	runner := a.Runner
	if runner == nil {
		cr := execution.NewCommandRunner(a.commandFor)
		cr.Stdout = a.Out
		cr.Stderr = a.Err
		runner = cr
	}
	exec := execution.NewExecutor(coord, runner)
	exec.SetLogger(a.Logger())
	return exec
}

func (a *App) candidateReader(path string) *candidates.Reader {
	if path == "" {
		path = a.Config.Candidates.Path
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return candidates.NewReaderWithPath(wd, path)
}

// connectBridge returns the intent bridge, or nil when none is configured.
// The returned close function is never nil.
func (a *App) connectBridge() (*bridge.Bridge, *bridge.Conn, func(), error) {
	noop := func() {}
	pub := a.Publisher
	var conn *bridge.Conn
	if pub == nil {
		if a.Config.Bridge.NATSURL == "" {
			return nil, nil, noop, nil
		}
		c, err := bridge.Connect(a.Config.Bridge.NATSURL, "graspctl-"+a.Session)
		if err != nil {
			return nil, nil, noop, err
		}
		conn, pub = c, c
	}

	b := bridge.New(pub, a.Config.Bridge.SubjectPrefix)
	b.SetSession(a.Session)
	b.SetLogger(a.Logger())

	closeFn := func() {
		b.Detach()
		if conn != nil {
			if err := conn.Close(); err != nil {
				a.Logger().Warn("closing NATS connection", "error", err)
			}
		}
	}
	return b, conn, closeFn, nil
}
